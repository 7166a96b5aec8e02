// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javajoker/toynews-backend/internal/models"
)

// Message is what a notifier delivers. ImageURL and LinkURL are optional.
type Message struct {
	Title    string
	Body     string
	ImageURL string
	LinkURL  string
}

// Notifier performs best-effort outbound delivery. Implementations log
// failures; nothing about ingestion depends on delivery succeeding.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// BuildMessage renders the alert for a product according to the trigger
// decision.
func BuildMessage(decision Decision, product *models.Product) Message {
	title := "新增数据"
	if decision.Kind == KindUpdate {
		title = "更新数据"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "商品名称: %s\n", product.Name)
	if product.ReleaseDate != "" {
		fmt.Fprintf(&body, "发售时间: %s\n", product.ReleaseDate)
	}
	if product.Price != "" {
		fmt.Fprintf(&body, "价格: %s\n", product.Price)
	}
	if product.Manufacturer != "" {
		fmt.Fprintf(&body, "厂商: %s\n", product.Manufacturer)
	}
	fmt.Fprintf(&body, "更新时间: %s", time.Now().Format("2006-01-02 15:04:05"))

	msg := Message{
		Title:   title,
		Body:    body.String(),
		LinkURL: product.URL,
	}
	if decision.ChannelHint == ChannelImageText && len(product.Images) > 0 {
		msg.ImageURL = product.Images[0]
	}
	return msg
}
