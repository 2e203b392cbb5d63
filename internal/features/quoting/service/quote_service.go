package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/quoting/domain"
	"shipdesk/internal/features/quoting/ports"

	"go.uber.org/zap"
)

// QuoteService packs items into boxes and aggregates carrier rates per address.
// It never touches persistence.
type QuoteService struct {
	provider    ports.RateProvider
	origin      domain.Region
	rateTimeout time.Duration
}

// NewQuoteService creates a QuoteService quoting from origin. A zero
// rateTimeout leaves per-box lookups bounded only by the caller's context.
func NewQuoteService(provider ports.RateProvider, origin domain.Region, rateTimeout time.Duration) *QuoteService {
	return &QuoteService{
		provider:    provider,
		origin:      origin,
		rateTimeout: rateTimeout,
	}
}

// QuoteAddress packs the group's items and quotes every box. Boxes whose lookup
// fails carry an error marker and are left out of the totals. Per-service
// totals are rounded to 2 decimals after summation.
func (s *QuoteService) QuoteAddress(ctx context.Context, group domain.AddressGroup) domain.AddressQuote {
	log := logger.Named("quote").With(zap.String("postal_code", group.Address.PostalCode))

	boxes := domain.Pack(group.Items)
	quote := domain.AddressQuote{
		Address:        group.Address,
		Boxes:          make([]domain.BoxQuote, 0, len(boxes)),
		RatesByService: make(map[string]domain.ServiceTotal),
	}

	for i, box := range boxes {
		bq := domain.BoxQuote{Box: box, Oversized: box.Oversized()}

		rates, err := s.rateBox(ctx, group.Address.Region, box)
		if err != nil {
			log.Warn("Rate lookup failed", zap.Int("box", i), zap.Error(err))
			bq.Error = err.Error()
			quote.Boxes = append(quote.Boxes, bq)
			continue
		}

		bq.Rates = rates
		for name, rate := range rates {
			domain.Accumulate(quote.RatesByService, name, rate.ServiceCode, rate.Currency, rate.Cost)
		}
		quote.Boxes = append(quote.Boxes, bq)
	}

	domain.RoundTotals(quote.RatesByService)
	return quote
}

// Quote quotes every group in order. The grand total of a service is the sum
// of the already rounded per-address totals, rounded again.
func (s *QuoteService) Quote(ctx context.Context, groups []domain.AddressGroup) domain.QuoteSummary {
	summary := domain.QuoteSummary{
		Addresses:  make([]domain.AddressQuote, 0, len(groups)),
		GrandTotal: make(map[string]domain.ServiceTotal),
	}

	for _, group := range groups {
		aq := s.QuoteAddress(ctx, group)
		for name, total := range aq.RatesByService {
			domain.Accumulate(summary.GrandTotal, name, total.ServiceCode, total.Currency, total.Total)
		}
		summary.Addresses = append(summary.Addresses, aq)
	}

	domain.RoundTotals(summary.GrandTotal)
	return summary
}

func (s *QuoteService) rateBox(ctx context.Context, destination domain.Region, box domain.Box) (map[string]domain.ServiceRate, error) {
	if s.rateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.rateTimeout)
		defer cancel()
	}

	rates, err := s.provider.GetRates(ctx, ports.RateRequest{
		Origin:      s.origin,
		Destination: destination,
		Box:         box,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("rate lookup timed out: %w", err)
		}
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ports.ErrNoRates
	}

	return rates, nil
}
