package model

import (
	"fmt"
	"strings"
)

// VersionPlaceholder is substituted with the project version in binary.remote_path
const VersionPlaceholder = "{version}"

// ProjectMetadata holds the descriptor fields needed to address the release
type ProjectMetadata struct {
	Name             string // Project name
	Version          string // Project version
	RepositoryURL    string // repository.url
	BinaryHost       string // binary.host
	BinaryRemotePath string // binary.remote_path, may contain {version}
}

// ReleaseTag returns the remote release key for this project version
func (m *ProjectMetadata) ReleaseTag() string {
	return ReleaseTag(m.BinaryRemotePath, m.Version)
}

// ReleaseTag replaces every {version} placeholder in template with version
func ReleaseTag(template, version string) string {
	return strings.ReplaceAll(template, VersionPlaceholder, version)
}

// Repository identifies a repository on a source hosting service
type Repository struct {
	Host  string // e.g. github.com
	Owner string
	Repo  string
}

// FullName returns owner/repo
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Repo
}

// DownloadHostPrefix is the value binary.host must carry for this repository
func (r *Repository) DownloadHostPrefix() string {
	return fmt.Sprintf("https://%s/%s/%s/releases/download/", r.Host, r.Owner, r.Repo)
}

// APIBaseURL is the releases API endpoint derived from the repository host
func (r *Repository) APIBaseURL() string {
	return fmt.Sprintf("https://api.%s/", r.Host)
}
