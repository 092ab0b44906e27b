package nudge

import (
	"context"
	"fmt"

	"github.com/brk3/habiterm/internal/logger"
)

// PendingHabits returns the names of habits due today that have no
// completion yet, in display order.
func PendingHabits(ctx context.Context, q Querier) ([]string, error) {
	today, err := q.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch today: %w", err)
	}
	out := make([]string, 0, len(today.Pending))
	for _, h := range today.Pending {
		out = append(out, h.Name)
	}
	return out, nil
}

// Nudge sends one reminder listing every pending habit. Nothing is sent when
// the day is already complete.
func Nudge(ctx context.Context, q Querier, n Notifier) ([]string, error) {
	pending, err := PendingHabits(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Info("Nothing pending today, skipping nudge")
		return nil, nil
	}
	if err := n.SendNudge(pending); err != nil {
		return nil, fmt.Errorf("send nudge: %w", err)
	}
	logger.Info("Sent nudge", "pending", len(pending))
	return pending, nil
}
