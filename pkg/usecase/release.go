package usecase

import (
	"context"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/interfaces"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ReleaseRequest identifies the release of one project version
type ReleaseRequest struct {
	Repository   model.Repository
	ReleaseTag   string // lookup key, binary.remote_path with {version} substituted
	Name         string
	Version      string
	TargetBranch string
	Draft        bool
}

// FindOrCreateRelease returns the first release tagged exactly req.ReleaseTag,
// creating one when none exists. The returned bool is true when the release
// was created by this call.
func FindOrCreateRelease(ctx context.Context, client interfaces.ReleaseClient, req *ReleaseRequest) (*model.Release, bool, error) {
	logger := ctxlog.From(ctx)
	owner, repo := req.Repository.Owner, req.Repository.Repo

	releases, err := client.ListReleases(ctx, owner, repo)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to list releases",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.T(types.ErrTagRemote))
	}

	for _, release := range releases {
		if release.TagName == req.ReleaseTag {
			logger.Info("Found existing release",
				"tag_name", release.TagName,
				"id", release.ID,
				"draft", release.Draft,
				"asset_count", len(release.Assets),
			)
			return release, false, nil
		}
	}

	// Created releases are tagged with the bare version while lookups use the
	// templated release tag.
	if req.ReleaseTag != req.Version {
		logger.Warn("Release tag differs from the tag of the release to be created; later runs will not find it",
			"release_tag", req.ReleaseTag,
			"tag_name", req.Version,
		)
	}

	newRelease := &model.NewRelease{
		TagName:      req.Version,
		TargetBranch: req.TargetBranch,
		Name:         "v" + req.Version,
		Body:         req.Name + " " + req.Version,
		Draft:        req.Draft,
		Prerelease:   false,
	}

	created, err := client.CreateRelease(ctx, owner, repo, newRelease)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to create release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag_name", newRelease.TagName),
			goerr.T(types.ErrTagRemote))
	}

	logger.Info("Created release",
		"tag_name", created.TagName,
		"id", created.ID,
		"draft", created.Draft,
	)

	return created, true, nil
}
