package api

import (
	"context"

	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/render"
)

// Coordinator runs analysis attempts. *coordinator.Coordinator implements it.
type Coordinator interface {
	Trigger(ctx context.Context, codebasePath, changeIntent string) (*render.Rendering, error)
	Status() coordinator.Status
}

// ViewSource exposes the displayed rendering. *render.View implements it.
type ViewSource interface {
	Current() (*render.Rendering, uint64)
}
