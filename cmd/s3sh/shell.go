// File: cmd/s3sh/shell.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"s3sh/internal/history"
	"s3sh/pkg/formatter"
)

const promptText = "s3sh> "

// shell reads one command per line until exit, quit or end of input.
// A failing command prints its error and the loop carries on.
type shell struct {
	app *appContainer
}

func newShell(app *appContainer) *shell {
	return &shell{app: app}
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}

func (s *shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.app.Out, formatter.Prompt(promptText))

		line, err := s.app.In.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading command: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case isExit(line):
			return nil
		default:
			s.handle(ctx, line)
		}

		if eof {
			fmt.Fprintln(s.app.Out)
			return nil
		}
	}
}

// handle records the line and runs it. Replay lines run the recorded command instead.
func (s *shell) handle(ctx context.Context, line string) {
	var err error
	if history.IsReplay(line) {
		err = s.app.History.Record(ctx, line)
	} else {
		if recErr := s.app.History.Record(ctx, line); recErr != nil {
			s.app.Logger.Warn("Command not recorded", "error", recErr)
		}
		err = s.app.Dispatch(ctx, line)
	}

	if err != nil {
		fmt.Fprintln(s.app.Out, formatter.Error(err.Error()))
	}
}
