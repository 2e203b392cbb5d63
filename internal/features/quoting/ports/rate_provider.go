package ports

import (
	"context"
	"errors"

	"shipdesk/internal/features/quoting/domain"
)

// ErrNoRates is returned when the carrier answered but quoted no service for the box.
var ErrNoRates = errors.New("no rates returned")

// RateRequest asks for every service the carrier offers for one box.
type RateRequest struct {
	Origin      domain.Region
	Destination domain.Region
	Box         domain.Box
}

// RateProvider defines the interface for carrier rate lookups.
type RateProvider interface {
	// GetRates returns the quoted services for the box, keyed by service name.
	GetRates(ctx context.Context, req RateRequest) (map[string]domain.ServiceRate, error)
}

// QuoteService defines the quoting operations exposed to the HTTP and CLI layers.
type QuoteService interface {
	Quote(ctx context.Context, groups []domain.AddressGroup) domain.QuoteSummary
}
