// File: internal/history/history.go

// Package history records executed shell lines and replays them by index.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"s3sh/internal/errs"
	"s3sh/internal/persist"
)

// Sigil marks a replay line, as in "! 3" or "!3"
const Sigil = "!"

// Dispatcher executes a command line
type Dispatcher interface {
	Dispatch(ctx context.Context, line string) error
}

type DispatcherFunc func(ctx context.Context, line string) error

func (f DispatcherFunc) Dispatch(ctx context.Context, line string) error {
	return f(ctx, line)
}

// Entry is one recorded line with its 1-based position
type Entry struct {
	Index int
	Text  string
}

// Log is append-only. Every append rewrites the whole persisted collection.
type Log struct {
	mu         sync.Mutex
	entries    []string
	store      persist.Store[string]
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewLog(ctx context.Context, store persist.Store[string], logger *slog.Logger) (*Log, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load command history: %w", err)
	}
	return &Log{
		entries: entries,
		store:   store,
		logger:  logger.With("component", "History"),
	}, nil
}

// SetDispatcher wires the command dispatcher used by Replay. The dispatcher
// usually needs the log itself, so it is attached after construction.
func (l *Log) SetDispatcher(d Dispatcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dispatcher = d
}

// IsReplay reports whether text is a replay invocation
func IsReplay(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), Sigil)
}

// ReplayIndex extracts the history index from a replay line. The index is the
// second whitespace-separated field; "!3" without a space is also accepted.
func ReplayIndex(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], Sigil) {
		return 0, fmt.Errorf("%w: %q is not a replay command", errs.ErrInvalidArgument, text)
	}

	token := strings.TrimPrefix(fields[0], Sigil)
	if len(fields) > 1 {
		token = fields[1]
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: history index %q is not a number", errs.ErrInvalidArgument, token)
	}
	return idx, nil
}

// Record appends text, or replays the referenced entry when text starts with the
// sigil. Replay lines are never appended.
func (l *Log) Record(ctx context.Context, text string) error {
	if IsReplay(text) {
		idx, err := ReplayIndex(text)
		if err != nil {
			return err
		}
		return l.Replay(ctx, idx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(slices.Clone(l.entries), text)
	if err := l.store.Save(ctx, next); err != nil {
		l.logger.Error("Failed to persist command history", "error", err)
		return fmt.Errorf("failed to save command history: %w", err)
	}
	l.entries = next
	return nil
}

// Replay re-submits the entry at the 1-based index exactly as recorded
func (l *Log) Replay(ctx context.Context, index int) error {
	l.mu.Lock()
	n := len(l.entries)
	if index < 1 || index > n {
		l.mu.Unlock()
		return fmt.Errorf("%w: history index %d, have %d entries", errs.ErrIndexOutOfRange, index, n)
	}
	text := l.entries[index-1]
	d := l.dispatcher
	l.mu.Unlock()

	if d == nil {
		return fmt.Errorf("no command dispatcher configured for replay")
	}
	l.logger.Debug("Replaying command", "index", index, "command", text)
	return d.Dispatch(ctx, text)
}

func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	for i, text := range l.entries {
		out[i] = Entry{Index: i + 1, Text: text}
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
