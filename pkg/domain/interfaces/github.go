package interfaces

//go:generate moq -out mocks/github_mock.go -pkg mocks . ReleaseClient

import (
	"context"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
)

// ReleaseClient defines the releases API operations used by the publisher
type ReleaseClient interface {
	// ListReleases returns every release of the repository, across all pages
	ListReleases(ctx context.Context, owner, repo string) ([]*model.Release, error)

	// CreateRelease creates a release and returns it as stored remotely
	CreateRelease(ctx context.Context, owner, repo string, release *model.NewRelease) (*model.Release, error)

	// UploadReleaseAsset attaches a file to the release
	UploadReleaseAsset(ctx context.Context, owner, repo string, release *model.Release, asset *model.UploadAsset) (*model.Asset, error)
}

// ReleaseClientFactory builds a client once the repository host is known
type ReleaseClientFactory func(repo *model.Repository, token string) (ReleaseClient, error)
