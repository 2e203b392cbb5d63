package adapter

import (
	"context"
	"errors"
	"strings"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"
)

// FanoutNotifier delivers each change to every notifier in order. The result
// is successful only if every delivery succeeded, and carries the first
// failing notifier's status code and body.
type FanoutNotifier struct {
	notifiers []ports.Notifier
}

// NewFanoutNotifier creates a FanoutNotifier.
func NewFanoutNotifier(notifiers ...ports.Notifier) *FanoutNotifier {
	return &FanoutNotifier{notifiers: notifiers}
}

// Notify implements ports.Notifier.
func (f *FanoutNotifier) Notify(ctx context.Context, change domain.StatusChange) ports.NotifyResult {
	out := ports.NotifyResult{Success: true}
	var errs []error
	var bodies []string

	for _, n := range f.notifiers {
		res := n.Notify(ctx, change)
		if res.Success {
			continue
		}
		if out.Success {
			out.StatusCode = res.StatusCode
		}
		out.Success = false
		if res.Body != "" {
			bodies = append(bodies, res.Body)
		}
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	out.Body = strings.Join(bodies, "\n")
	out.Err = errors.Join(errs...)
	return out
}
