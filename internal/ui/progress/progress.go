// File: internal/ui/progress/progress.go

// Package progress renders download progress for the interactive shell.
package progress

import (
	"fmt"
	"io"
	"strings"

	"s3sh/internal/transfer"
	"s3sh/pkg/storage"
)

// Modes accepted by transfer.progress
const (
	ModeBar   = "bar"
	ModePlain = "plain"
	ModeNone  = "none"
)

// New returns the reporter for mode, writing to out. Unknown modes fall back to plain.
func New(mode string, out io.Writer) transfer.ProgressReporter {
	switch strings.ToLower(mode) {
	case ModeBar:
		return NewBarReporter(out)
	case ModeNone:
		return transfer.NopReporter{}
	default:
		return NewPlainReporter(out)
	}
}

// PlainReporter redraws a fixed-width text bar in place using carriage returns:
//
//	[=======          ][1.2 MiB/3.0 MiB]
type PlainReporter struct {
	out io.Writer
}

func NewPlainReporter(out io.Writer) *PlainReporter {
	return &PlainReporter{out: out}
}

func (r *PlainReporter) Started(transfer.Job) {}

func (r *PlainReporter) Advanced(p transfer.Progress) {
	filled := max(p.Segment-1, 0)
	blank := max(p.Segments-filled-1, 0)
	fmt.Fprintf(r.out, "[%s%s][%s/%s]\r",
		strings.Repeat("=", filled),
		strings.Repeat(" ", blank),
		storage.FormatBytes(p.Transferred),
		storage.FormatBytes(p.Total))
}

func (r *PlainReporter) Completed(job transfer.Job) {
	total := storage.FormatBytes(job.TotalBytes)
	fmt.Fprintf(r.out, "[%s][%s/%s]\n", strings.Repeat("=", max(job.SegmentCount-1, 0)), total, total)
}

// Leaves the last partial bar on screen and moves to a fresh line
func (r *PlainReporter) Failed(transfer.Job, error) {
	fmt.Fprintln(r.out)
}
