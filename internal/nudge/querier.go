package nudge

import (
	"context"

	"github.com/brk3/habiterm/internal/service"
)

type Querier interface {
	Today(ctx context.Context) (*service.Today, error)
}

type Notifier interface {
	SendNudge(habits []string) error
}
