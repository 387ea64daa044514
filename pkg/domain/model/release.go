package model

// Release is a remote release as seen by the publisher
type Release struct {
	ID         int64
	TagName    string
	Name       string
	UploadURL  string // upload_url hypermedia template returned by the API
	Draft      bool
	Prerelease bool
	Assets     []Asset
}

// Asset is a file already attached to a release
type Asset struct {
	ID   int64
	Name string
	Size int64
}

// HasAsset reports whether an asset with exactly this name is attached
func (r *Release) HasAsset(name string) bool {
	for _, a := range r.Assets {
		if a.Name == name {
			return true
		}
	}
	return false
}

// NewRelease describes a release to create
type NewRelease struct {
	TagName      string
	TargetBranch string
	Name         string
	Body         string
	Draft        bool
	Prerelease   bool
}

// UploadAsset is a staged file ready to be uploaded
type UploadAsset struct {
	Name          string
	Data          []byte
	ContentType   string
	ContentLength int64
}
