package interfaces

import (
	"context"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
)

// PublishUseCase publishes staged artifacts to the release of the current version
type PublishUseCase interface {
	// Publish locates or creates the release and uploads every missing staged file
	Publish(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error)
}
