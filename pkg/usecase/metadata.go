package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// repositoryURLPattern captures host and the owner/repo path before the .git suffix.
// It is not anchored so that descriptors using git+https:// still match.
var repositoryURLPattern = regexp.MustCompile(`(?i)https?://([^/]+)/(.*)\.git`)

// packageDescriptor is the subset of package.json read by the publisher
type packageDescriptor struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Repository *struct {
		URL string `json:"url"`
	} `json:"repository"`
	Binary *struct {
		Host       string `json:"host"`
		RemotePath string `json:"remote_path"`
	} `json:"binary"`
}

// ParseProjectMetadata decodes a package.json document
func ParseProjectMetadata(data []byte) (*model.ProjectMetadata, error) {
	var desc packageDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, goerr.Wrap(err, "unable to read package.json", goerr.T(types.ErrTagConfig))
	}

	meta := &model.ProjectMetadata{
		Name:    desc.Name,
		Version: desc.Version,
	}
	if desc.Repository != nil {
		meta.RepositoryURL = desc.Repository.URL
	}
	if desc.Binary != nil {
		meta.BinaryHost = desc.Binary.Host
		meta.BinaryRemotePath = desc.Binary.RemotePath
	}
	return meta, nil
}

// ParseRepositoryURL extracts host, owner and repo from a repository URL
// such as https://github.com/acme/widget.git
func ParseRepositoryURL(url string) (*model.Repository, error) {
	match := repositoryURLPattern.FindStringSubmatch(url)
	if match == nil {
		return nil, goerr.New("a correctly formatted GitHub repository.url was not found in package.json",
			goerr.V("url", url), goerr.T(types.ErrTagConfig))
	}

	parts := strings.Split(match[2], "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, goerr.New("a correctly formatted GitHub repository.url was not found in package.json",
			goerr.V("url", url), goerr.T(types.ErrTagConfig))
	}

	return &model.Repository{
		Host:  match[1],
		Owner: parts[0],
		Repo:  parts[1],
	}, nil
}

// ResolveMetadata validates the repository and binary fields and returns the
// repository the release belongs to
func ResolveMetadata(meta *model.ProjectMetadata) (*model.Repository, error) {
	if meta.RepositoryURL == "" {
		return nil, goerr.New("missing repository.url in package.json", goerr.T(types.ErrTagConfig))
	}

	repo, err := ParseRepositoryURL(meta.RepositoryURL)
	if err != nil {
		return nil, err
	}

	if meta.BinaryHost == "" {
		return nil, goerr.New("missing binary.host in package.json", goerr.T(types.ErrTagConfig))
	}

	expected := repo.DownloadHostPrefix()
	if meta.BinaryHost != expected {
		return nil, goerr.New("invalid binary.host: should be "+expected,
			goerr.V("expected", expected),
			goerr.V("actual", meta.BinaryHost),
			goerr.T(types.ErrTagConfig))
	}

	if meta.BinaryRemotePath == "" {
		return nil, goerr.New("missing binary.remote_path in package.json", goerr.T(types.ErrTagConfig))
	}

	return repo, nil
}
