// Package alert runs periodic ingestion of disaster alert feeds into bounded
// per-category buffers.
package alert

import (
	"context"

	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// Source is one upstream alert feed. Each source owns its field mapping;
// the ingestor never assumes a shared schema.
type Source interface {
	Name() string
	// Categories lists the categories this source can produce. They receive
	// a fallback alert when the source fails.
	Categories() []domain.Category
	Fetch(ctx context.Context) ([]byte, error)
	// Normalize returns records newest first.
	Normalize(payload []byte) ([]domain.AlertRecord, error)
}

// Publisher forwards buffered records to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, records []domain.AlertRecord) error
}
