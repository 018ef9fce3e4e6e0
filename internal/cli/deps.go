// Package cli implements the mapfield command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-mapfield/components/mapfield"
)

// Dependencies wires runtime services.
type Dependencies struct {
	Prompts PromptDriver
	// Lookup resolves environment variables such as the API key override.
	Lookup  mapfield.LookupFunc
	Version string
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrAborted) {
		_, _ = fmt.Fprintln(stderr, "aborted")
		return 130
	}
	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(parsed).
		With().
		Timestamp().
		Logger(), nil
}
