// File: internal/ui/progress/bar.go
package progress

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"s3sh/internal/transfer"
	"s3sh/pkg/storage"
)

const barWidth = 48

var (
	keyStyle    = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Faint(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type advancedMsg transfer.Progress

type finishedMsg struct {
	job transfer.Job
	err error
}

// barModel is the bubbletea model behind BarReporter
type barModel struct {
	bar         progress.Model
	key         string
	transferred int64
	total       int64
	done        bool
	err         error
}

func newBarModel(job transfer.Job) barModel {
	return barModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		key:   job.RemoteKey,
		total: job.TotalBytes,
	}
}

func (m barModel) Init() tea.Cmd {
	return nil
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advancedMsg:
		m.transferred = msg.Transferred
		m.total = msg.Total
		return m, nil
	case finishedMsg:
		m.done = true
		m.err = msg.err
		m.transferred = msg.job.BytesTransferred
		return m, tea.Quit
	}
	return m, nil
}

func (m barModel) percent() float64 {
	if m.total <= 0 {
		if m.done && m.err == nil {
			return 1
		}
		return 0
	}
	return min(float64(m.transferred)/float64(m.total), 1)
}

func (m barModel) View() string {
	counts := countStyle.Render(fmt.Sprintf("%s/%s", storage.FormatBytes(m.transferred), storage.FormatBytes(m.total)))
	line := fmt.Sprintf("%s %s %s", keyStyle.Render(m.key), m.bar.ViewAs(m.percent()), counts)
	if m.done {
		if m.err != nil {
			line += " " + failedStyle.Render("failed")
		}
		line += "\n"
	}
	return line
}

// BarReporter drives a bubbletea program for the lifetime of one download.
// The program runs on its own goroutine and is drained before Completed or Failed return.
type BarReporter struct {
	out     io.Writer
	program *tea.Program
	group   *errgroup.Group
}

func NewBarReporter(out io.Writer) *BarReporter {
	return &BarReporter{out: out}
}

func (r *BarReporter) Started(job transfer.Job) {
	r.program = tea.NewProgram(newBarModel(job),
		tea.WithOutput(r.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	r.group = new(errgroup.Group)
	program := r.program
	r.group.Go(func() error {
		_, err := program.Run()
		return err
	})
}

func (r *BarReporter) Advanced(p transfer.Progress) {
	if r.program != nil {
		r.program.Send(advancedMsg(p))
	}
}

func (r *BarReporter) Completed(job transfer.Job) {
	r.finish(finishedMsg{job: job})
}

func (r *BarReporter) Failed(job transfer.Job, err error) {
	r.finish(finishedMsg{job: job, err: err})
}

func (r *BarReporter) finish(msg finishedMsg) {
	if r.program == nil {
		return
	}
	r.program.Send(msg)
	if err := r.group.Wait(); err != nil {
		slog.Debug("Progress renderer stopped with error", "error", err)
	}
	r.program, r.group = nil, nil
}
