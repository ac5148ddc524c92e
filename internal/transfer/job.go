// File: internal/transfer/job.go

// Package transfer moves single objects between the local filesystem and a bucket.
package transfer

type Status int

const (
	Pending Status = iota
	InProgress
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case InProgress:
		return "in progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job tracks one download while its command runs
type Job struct {
	RemoteKey        string
	LocalPath        string
	TotalBytes       int64
	BytesTransferred int64
	SegmentCount     int
	Status           Status
}

// Progress is one step of the segmented progress bar
type Progress struct {
	Transferred int64
	Total       int64
	// Segment is the number of completed segments, at most Segments
	Segment  int
	Segments int
}

// ProgressReporter receives transfer lifecycle events. Calls arrive from the
// goroutine running the transfer, in order.
type ProgressReporter interface {
	Started(job Job)
	Advanced(p Progress)
	Completed(job Job)
	Failed(job Job, err error)
}

// NopReporter discards every event
type NopReporter struct{}

func (NopReporter) Started(Job)       {}
func (NopReporter) Advanced(Progress) {}
func (NopReporter) Completed(Job)     {}
func (NopReporter) Failed(Job, error) {}
