package port

import (
	"context"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

// Cache holds rendered depth snapshots for read-heavy market-data queries.
// A miss is reported as (nil, nil). The book invalidates on every mutation,
// so a hit is never stale.
type Cache interface {
	SetDepth(ctx context.Context, symbol string, snap *domain.DepthSnapshot) error
	GetDepth(ctx context.Context, symbol string) (*domain.DepthSnapshot, error)
	Invalidate(ctx context.Context, symbol string) error
}
