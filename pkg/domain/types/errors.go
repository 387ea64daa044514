package types

import "github.com/m-mizutani/goerr/v2"

// Error classes of the publish workflow. Every error returned by the usecase
// carries exactly one of these tags.
var (
	// ErrTagConfig marks missing or invalid descriptor fields and a missing token
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagFileSystem marks a missing, empty or unreadable stage directory or file
	ErrTagFileSystem = goerr.NewTag("filesystem")

	// ErrTagRemote marks any failure returned by the releases API
	ErrTagRemote = goerr.NewTag("remote")
)
