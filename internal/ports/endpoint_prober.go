package ports

import (
	"context"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
)

// EndpointProber performs one bounded check of a single candidate endpoint
// and reports the measured round-trip on success.
type EndpointProber interface {
	Probe(ctx context.Context, endpoint domain.Endpoint) (time.Duration, error)
}
