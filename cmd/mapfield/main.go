package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/goliatone/go-mapfield/internal/cli"
	"github.com/goliatone/go-mapfield/internal/env"
)

var version = "dev"

func main() {
	if _, err := env.Load(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps := cli.Dependencies{
		Prompts: cli.SurveyPrompts(),
		Lookup:  env.Lookup,
		Version: version,
	}

	exitCode := cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}
