// internal/ingest/orchestrator.go
package ingest

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/toynews-backend/internal/mappers"
	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/notify"
	"github.com/javajoker/toynews-backend/internal/store"
	"github.com/javajoker/toynews-backend/internal/translation"
)

// Result summarizes what ingesting one raw record did.
type Result struct {
	ProductHash string           `json:"product_hash,omitempty"`
	Source      string           `json:"source"`
	Dropped     bool             `json:"dropped,omitempty"`
	IsNew       bool             `json:"is_new"`
	Version     int              `json:"version"`
	Changed     models.ChangeSet `json:"changed_fields,omitempty"`
	Notified    bool             `json:"notified,omitempty"`
}

// Orchestrator wires one raw record through mapper, versioned store,
// translation queue and notification trigger: exactly one store write and
// at most one enqueue per record.
type Orchestrator struct {
	registry *mappers.Registry
	store    *store.Store
	queue    *translation.Queue
	notifier notify.Notifier
}

func NewOrchestrator(registry *mappers.Registry, st *store.Store, queue *translation.Queue, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		store:    st,
		queue:    queue,
		notifier: notifier,
	}
}

// IngestRecord processes one raw record. A record with no registered
// mapper is logged and dropped; ingestion of other records continues.
// Datastore failures propagate.
func (o *Orchestrator) IngestRecord(ctx context.Context, raw mappers.RawRecord) (*Result, error) {
	source := raw.Source()

	product, err := o.registry.MapToProduct(raw, source)
	if err != nil {
		var noMapper *mappers.ErrNoMapper
		if errors.As(err, &noMapper) {
			logrus.WithFields(logrus.Fields{
				"source": source,
				"url":    raw.String("url"),
			}).Warn("No mapper for source, record dropped")
			return &Result{Source: source, Dropped: true}, nil
		}
		return nil, err
	}

	upsert, err := o.store.Upsert(ctx, product, store.ByProductHash)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ProductHash: product.ProductHash,
		Source:      source,
		IsNew:       upsert.IsNew,
		Version:     upsert.Version,
		Changed:     upsert.Changed,
	}

	if !upsert.HasChanges() {
		return result, nil
	}

	// Enqueue only when a translatable text field is new or changed; a
	// price movement alone does not invalidate existing translations.
	if upsert.IsNew || upsert.Changed.ContainsAny(models.TranslatableFields...) {
		if err := o.queue.EnqueueIfIncomplete(ctx, product, models.TranslatableFields); err != nil {
			logrus.WithError(err).WithField("product_hash", product.ProductHash).
				Error("Failed to enqueue translation")
		}
	}

	decision := notify.Decide(upsert, product)
	if decision.ShouldNotify && o.notifier != nil {
		msg := notify.BuildMessage(decision, product)
		if err := o.notifier.Send(ctx, msg); err != nil {
			// Best effort: delivery failures never touch the committed write.
			logrus.WithError(err).WithFields(logrus.Fields{
				"product_hash": product.ProductHash,
				"kind":         decision.Kind,
			}).Error("Notification delivery failed")
		} else {
			result.Notified = true
		}
	}

	return result, nil
}

// IngestBatch processes records in order, skipping per-record failures so
// one bad record cannot stall a crawl delivery.
func (o *Orchestrator) IngestBatch(ctx context.Context, records []mappers.RawRecord) []Result {
	results := make([]Result, 0, len(records))
	for _, raw := range records {
		res, err := o.IngestRecord(ctx, raw)
		if err != nil {
			logrus.WithError(err).WithField("source", raw.Source()).Error("Record ingestion failed")
			results = append(results, Result{Source: raw.Source(), Dropped: true})
			continue
		}
		results = append(results, *res)
	}
	return results
}
