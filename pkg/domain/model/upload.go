package model

// UploadStatus is the outcome of a single staged file
type UploadStatus string

const (
	UploadStatusUploaded UploadStatus = "uploaded"
	UploadStatusSkipped  UploadStatus = "skipped"
	UploadStatusFailed   UploadStatus = "failed"
)

// UploadOutcome records what happened to one staged file
type UploadOutcome struct {
	Name   string
	Path   string
	Status UploadStatus
	Size   int64
	Err    error
}

// UploadReport collects every outcome of an upload phase, in staging order
type UploadReport struct {
	Outcomes []UploadOutcome
}

// Count returns the number of outcomes with the given status
func (r *UploadReport) Count(status UploadStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed returns outcomes that ended in an error
func (r *UploadReport) Failed() []UploadOutcome {
	var failed []UploadOutcome
	for _, o := range r.Outcomes {
		if o.Status == UploadStatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// PublishOptions are supplied by the caller of a publish run
type PublishOptions struct {
	Draft bool   // create the release as a draft when none exists
	Token string `masq:"secret"`
}

// PublishResult summarizes a publish run
type PublishResult struct {
	Repository     Repository
	ReleaseTag     string
	Release        *Release
	ReleaseCreated bool
	StageDir       string
	Report         *UploadReport
}
