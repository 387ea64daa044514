package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/interfaces"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultDescriptorPath = "package.json"
	DefaultStageDir       = "build/stage"
	DefaultTargetBranch   = "master"
	DefaultConcurrency    = 4
)

// config holds internal publish configuration
type config struct {
	workDir        string
	descriptorPath string
	stageDir       string
	targetBranch   string
	concurrency    int
}

// Option is a functional option for the publish use case
type Option func(*config)

// WithWorkDir sets the directory relative paths are resolved against.
// Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(c *config) {
		c.workDir = dir
	}
}

// WithDescriptorPath sets the project descriptor path
func WithDescriptorPath(path string) Option {
	return func(c *config) {
		c.descriptorPath = path
	}
}

// WithStageDir sets the staging root that holds one directory per release tag
func WithStageDir(dir string) Option {
	return func(c *config) {
		c.stageDir = dir
	}
}

// WithTargetBranch sets the branch new releases are created from
func WithTargetBranch(branch string) Option {
	return func(c *config) {
		c.targetBranch = branch
	}
}

// WithConcurrency sets how many files are uploaded at once
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

type publishUseCase struct {
	newClient interfaces.ReleaseClientFactory
	cfg       config
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(newClient interfaces.ReleaseClientFactory, opts ...Option) interfaces.PublishUseCase {
	cfg := config{
		descriptorPath: DefaultDescriptorPath,
		stageDir:       DefaultStageDir,
		targetBranch:   DefaultTargetBranch,
		concurrency:    DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &publishUseCase{
		newClient: newClient,
		cfg:       cfg,
	}
}

func (uc *publishUseCase) resolve(path string) string {
	if filepath.IsAbs(path) || uc.cfg.workDir == "" {
		return path
	}
	return filepath.Join(uc.cfg.workDir, path)
}

// Publish uploads the staged files of the current project version
func (uc *publishUseCase) Publish(ctx context.Context, opts model.PublishOptions) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	if opts.Token == "" {
		return nil, goerr.New("GH_TOKEN environment variable not found", goerr.T(types.ErrTagConfig))
	}

	descriptorPath := uc.resolve(uc.cfg.descriptorPath)
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to read package.json",
			goerr.V("path", descriptorPath), goerr.T(types.ErrTagConfig))
	}

	meta, err := ParseProjectMetadata(data)
	if err != nil {
		return nil, err
	}

	repo, err := ResolveMetadata(meta)
	if err != nil {
		return nil, err
	}

	releaseTag := meta.ReleaseTag()
	stageDir := filepath.Join(uc.resolve(uc.cfg.stageDir), releaseTag)

	logger.Info("Publishing staged files",
		"name", meta.Name,
		"version", meta.Version,
		"repository", repo.FullName(),
		"release_tag", releaseTag,
		"stage_dir", stageDir,
		"draft", opts.Draft,
	)

	// The stage is listed before any network call so that an empty stage
	// never leaves a new release behind.
	files, err := ListStagedFiles(stageDir)
	if err != nil {
		return nil, err
	}

	client, err := uc.newClient(repo, opts.Token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client",
			goerr.V("host", repo.Host), goerr.T(types.ErrTagConfig))
	}

	release, created, err := FindOrCreateRelease(ctx, client, &ReleaseRequest{
		Repository:   *repo,
		ReleaseTag:   releaseTag,
		Name:         meta.Name,
		Version:      meta.Version,
		TargetBranch: uc.cfg.targetBranch,
		Draft:        opts.Draft,
	})
	if err != nil {
		return nil, err
	}

	result := &model.PublishResult{
		Repository:     *repo,
		ReleaseTag:     releaseTag,
		Release:        release,
		ReleaseCreated: created,
		StageDir:       stageDir,
	}

	report, err := UploadAssets(ctx, client, &UploadRequest{
		Repository:  *repo,
		Release:     release,
		StageDir:    stageDir,
		Files:       files,
		Concurrency: uc.cfg.concurrency,
	})
	result.Report = report
	if err != nil {
		return result, err
	}

	logger.Info("Done",
		"uploaded", report.Count(model.UploadStatusUploaded),
		"skipped", report.Count(model.UploadStatusSkipped),
	)

	return result, nil
}
