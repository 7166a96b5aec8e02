// internal/notify/trigger.go
package notify

import (
	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/store"
)

type Kind string

const (
	KindNew    Kind = "new"
	KindUpdate Kind = "update"
)

type ChannelHint string

const (
	ChannelText      ChannelHint = "text"
	ChannelImageText ChannelHint = "image_text"
)

// Decision is the pure outcome of the notification trigger. Delivery is
// someone else's job.
type Decision struct {
	ShouldNotify bool
	Kind         Kind
	ChannelHint  ChannelHint
}

// meaningfulFields are the business fields whose change alone justifies an
// update alert. Name tweaks and re-scraped descriptions do not page anyone;
// price and release date movements do.
var meaningfulFields = []string{models.FieldPrice, models.FieldReleaseDate}

// Decide maps an upsert outcome onto a notification decision. New products
// always notify; updates notify only when a business-meaningful field
// changed. Products with images get the richer channel.
func Decide(result *store.UpsertResult, product *models.Product) Decision {
	d := Decision{ChannelHint: ChannelText}
	if len(product.Images) > 0 {
		d.ChannelHint = ChannelImageText
	}

	switch {
	case result.Skipped:
		return d
	case result.IsNew:
		d.ShouldNotify = true
		d.Kind = KindNew
	case result.Changed.ContainsAny(meaningfulFields...):
		d.ShouldNotify = true
		d.Kind = KindUpdate
	}
	return d
}
