package usecase

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/interfaces"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const defaultContentType = "application/octet-stream"

// archiveContentTypes pins the media types of build artifact extensions,
// which system mime tables disagree on
var archiveContentTypes = map[string]string{
	".gz":   "application/gzip",
	".tgz":  "application/gzip",
	".tar":  "application/x-tar",
	".zip":  "application/zip",
	".xz":   "application/x-xz",
	".bz2":  "application/x-bzip2",
	".zst":  "application/zstd",
	".node": defaultContentType,
}

// ContentType resolves the media type of a staged file from its extension
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return defaultContentType
	}
	if ct, ok := archiveContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return defaultContentType
}

// ListStagedFiles returns the names of the files staged in dir, in directory
// listing order. An empty directory is an error.
func ListStagedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read stage directory",
			goerr.V("dir", dir), goerr.T(types.ErrTagFileSystem))
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		return nil, goerr.New("no files found within the stage directory: "+dir,
			goerr.V("dir", dir), goerr.T(types.ErrTagFileSystem))
	}

	return names, nil
}

// UploadRequest describes one upload phase
type UploadRequest struct {
	Repository  model.Repository
	Release     *model.Release
	StageDir    string
	Files       []string // names relative to StageDir
	Concurrency int
}

// UploadAssets uploads every staged file not yet attached to the release.
// All files are attempted; the report lists each outcome in staging order and
// the returned error, if any, carries the class of the first failure.
func UploadAssets(ctx context.Context, client interfaces.ReleaseClient, req *UploadRequest) (*model.UploadReport, error) {
	outcomes := make([]model.UploadOutcome, len(req.Files))
	group := async.NewGroup(ctx, req.Concurrency)

	for i, name := range req.Files {
		outcomes[i] = model.UploadOutcome{
			Name: name,
			Path: filepath.Join(req.StageDir, name),
		}
		outcome := &outcomes[i]

		if req.Release.HasAsset(name) {
			outcome.Status = model.UploadStatusSkipped
			ctxlog.From(ctx).Info("Staged file already exists in release, skipping. Delete it on GitHub first to replace it",
				"file", name,
				"tag_name", req.Release.TagName,
			)
			continue
		}

		group.Go(func(ctx context.Context) error {
			size, err := uploadFile(ctx, client, req, outcome.Path, name)
			outcome.Size = size
			return err
		})
	}

	errs := group.Wait()

	var firstErr error
	failed := 0
	taskIdx := 0
	for i := range outcomes {
		if outcomes[i].Status == model.UploadStatusSkipped {
			continue
		}
		err := errs[taskIdx]
		taskIdx++

		if err != nil {
			outcomes[i].Status = model.UploadStatusFailed
			outcomes[i].Err = err
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		outcomes[i].Status = model.UploadStatusUploaded
	}

	report := &model.UploadReport{Outcomes: outcomes}
	if firstErr != nil {
		return report, goerr.Wrap(firstErr, "failed to upload staged files",
			goerr.V("failed", failed),
			goerr.V("total", len(outcomes)),
			goerr.V("tag_name", req.Release.TagName),
			errorClass(firstErr))
	}

	return report, nil
}

func uploadFile(ctx context.Context, client interfaces.ReleaseClient, req *UploadRequest, path, name string) (int64, error) {
	logger := ctxlog.From(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read staged file", "file", name, "error", err)
		return 0, goerr.Wrap(err, "failed to read staged file",
			goerr.V("path", path), goerr.T(types.ErrTagFileSystem))
	}

	logger.Info("Staged file found, uploading", "file", name, "size_bytes", len(data))

	asset := &model.UploadAsset{
		Name:          name,
		Data:          data,
		ContentType:   ContentType(name),
		ContentLength: int64(len(data)),
	}

	owner, repo := req.Repository.Owner, req.Repository.Repo
	if _, err := client.UploadReleaseAsset(ctx, owner, repo, req.Release, asset); err != nil {
		logger.Error("Failed to upload staged file", "file", name, "error", err)
		return asset.ContentLength, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("file", name),
			goerr.V("release_id", req.Release.ID),
			goerr.T(types.ErrTagRemote))
	}

	logger.Info("Staged file uploaded",
		"file", name,
		"repository", req.Repository.FullName(),
		"tag_name", req.Release.TagName,
	)

	return asset.ContentLength, nil
}

// errorClass keeps the class of err on the error that wraps it
func errorClass(err error) goerr.Option {
	switch {
	case goerr.HasTag(err, types.ErrTagFileSystem):
		return goerr.T(types.ErrTagFileSystem)
	case goerr.HasTag(err, types.ErrTagConfig):
		return goerr.T(types.ErrTagConfig)
	default:
		return goerr.T(types.ErrTagRemote)
	}
}
