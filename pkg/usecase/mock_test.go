package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
)

// MockReleaseClient is a mock implementation of ReleaseClient
type MockReleaseClient struct {
	mu sync.Mutex

	listReleasesFunc       func(ctx context.Context, owner, repo string) ([]*model.Release, error)
	createReleaseFunc      func(ctx context.Context, owner, repo string, release *model.NewRelease) (*model.Release, error)
	uploadReleaseAssetFunc func(ctx context.Context, owner, repo string, release *model.Release, asset *model.UploadAsset) (*model.Asset, error)

	listCalls   int
	createCalls []*model.NewRelease
	uploadCalls []*model.UploadAsset
}

func (m *MockReleaseClient) ListReleases(ctx context.Context, owner, repo string) ([]*model.Release, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listReleasesFunc != nil {
		return m.listReleasesFunc(ctx, owner, repo)
	}
	return nil, nil
}

func (m *MockReleaseClient) CreateRelease(ctx context.Context, owner, repo string, release *model.NewRelease) (*model.Release, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, release)
	m.mu.Unlock()
	if m.createReleaseFunc != nil {
		return m.createReleaseFunc(ctx, owner, repo, release)
	}
	return &model.Release{
		ID:        1,
		TagName:   release.TagName,
		Name:      release.Name,
		Draft:     release.Draft,
		UploadURL: "https://uploads.github.com/repos/" + owner + "/" + repo + "/releases/1/assets{?name,label}",
	}, nil
}

func (m *MockReleaseClient) UploadReleaseAsset(ctx context.Context, owner, repo string, release *model.Release, asset *model.UploadAsset) (*model.Asset, error) {
	m.mu.Lock()
	m.uploadCalls = append(m.uploadCalls, asset)
	m.mu.Unlock()
	if m.uploadReleaseAssetFunc != nil {
		return m.uploadReleaseAssetFunc(ctx, owner, repo, release, asset)
	}
	return &model.Asset{ID: 100, Name: asset.Name, Size: asset.ContentLength}, nil
}

func (m *MockReleaseClient) uploadedNames() map[string]*model.UploadAsset {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make(map[string]*model.UploadAsset, len(m.uploadCalls))
	for _, a := range m.uploadCalls {
		names[a.Name] = a
	}
	return names
}

var errMockRemote = errors.New("mock remote failure")
