package github

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/interfaces"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/google/go-github/v75/github"
)

const releasesPerPage = 100

// config holds internal client configuration
type config struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API endpoint, e.g. https://api.github.com/
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithUploadURL sets the endpoint used when a release carries no upload_url
func WithUploadURL(u string) Option {
	return func(c *config) {
		c.uploadURL = u
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

type client struct {
	githubClient *github.Client
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (interfaces.ReleaseClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient).WithAuthToken(token)

	if cfg.baseURL != "" {
		u, err := parseEndpoint(cfg.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", cfg.baseURL, err)
		}
		githubClient.BaseURL = u
	}
	if cfg.uploadURL != "" {
		u, err := parseEndpoint(cfg.uploadURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub upload URL %q: %w", cfg.uploadURL, err)
		}
		githubClient.UploadURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// NewFactory returns a ReleaseClientFactory. Unless WithBaseURL is given the
// API endpoint is derived from the repository host as https://api.{host}/.
func NewFactory(opts ...Option) interfaces.ReleaseClientFactory {
	return func(repo *model.Repository, token string) (interfaces.ReleaseClient, error) {
		cfg := &config{}
		for _, opt := range opts {
			opt(cfg)
		}

		clientOpts := append([]Option{WithBaseURL(repo.APIBaseURL())}, opts...)
		if cfg.baseURL != "" && cfg.uploadURL == "" {
			clientOpts = append(clientOpts, WithUploadURL(cfg.baseURL))
		}
		return NewClient(token, clientOpts...)
	}
}

// parseEndpoint parses u and makes sure the path ends with a slash, as
// required by go-github for relative request paths
func parseEndpoint(u string) (*url.URL, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("URL must be absolute")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed, nil
}

// ListReleases returns every release of the repository, following pagination
func (c *client) ListReleases(ctx context.Context, owner, repo string) ([]*model.Release, error) {
	opts := &github.ListOptions{PerPage: releasesPerPage}

	var releases []*model.Release
	for {
		page, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases of %s/%s: %w", owner, repo, err)
		}

		for _, r := range page {
			releases = append(releases, toRelease(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return releases, nil
}

// CreateRelease creates a new release
func (c *client) CreateRelease(ctx context.Context, owner, repo string, release *model.NewRelease) (*model.Release, error) {
	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:         github.Ptr(release.TagName),
		TargetCommitish: github.Ptr(release.TargetBranch),
		Name:            github.Ptr(release.Name),
		Body:            github.Ptr(release.Body),
		Draft:           github.Ptr(release.Draft),
		Prerelease:      github.Ptr(release.Prerelease),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s in %s/%s: %w", release.TagName, owner, repo, err)
	}

	return toRelease(created), nil
}

// UploadReleaseAsset uploads asset to the upload target of the release
func (c *client) UploadReleaseAsset(ctx context.Context, owner, repo string, release *model.Release, asset *model.UploadAsset) (*model.Asset, error) {
	target := uploadTarget(owner, repo, release, asset.Name)

	req, err := c.githubClient.NewUploadRequest(target, bytes.NewReader(asset.Data), asset.ContentLength, asset.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request for %s: %w", asset.Name, err)
	}

	uploaded := new(github.ReleaseAsset)
	if _, err := c.githubClient.Do(ctx, req, uploaded); err != nil {
		return nil, fmt.Errorf("failed to upload %s to release %d of %s/%s: %w", asset.Name, release.ID, owner, repo, err)
	}

	return &model.Asset{
		ID:   uploaded.GetID(),
		Name: uploaded.GetName(),
		Size: int64(uploaded.GetSize()),
	}, nil
}

// uploadTarget expands the upload_url hypermedia template of the release,
// e.g. https://uploads.github.com/repos/o/r/releases/1/assets{?name,label}
func uploadTarget(owner, repo string, release *model.Release, name string) string {
	base := release.UploadURL
	if i := strings.Index(base, "{"); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		base = fmt.Sprintf("repos/%s/%s/releases/%d/assets", owner, repo, release.ID)
	}

	return base + "?" + url.Values{"name": {name}}.Encode()
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	release := &model.Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Name:       r.GetName(),
		UploadURL:  r.GetUploadURL(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
	}
	for _, a := range r.Assets {
		release.Assets = append(release.Assets, model.Asset{
			ID:   a.GetID(),
			Name: a.GetName(),
			Size: int64(a.GetSize()),
		})
	}
	return release
}
