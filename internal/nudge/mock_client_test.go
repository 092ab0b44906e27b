package nudge

import (
	"context"

	"github.com/brk3/habiterm/internal/service"
)

type mockClient struct {
	today *service.Today
	err   error
}

func (f *mockClient) Today(ctx context.Context) (*service.Today, error) {
	return f.today, f.err
}
