package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/cli/config"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return newApp(os.Stdout).Run(ctx, args)
}

func newApp(w io.Writer) *application {
	return &application{stdout: w}
}

type application struct {
	stdout io.Writer
}

func (a *application) Run(ctx context.Context, args []string) error {
	loggerCfg := config.Logger{Writer: a.stdout}
	var logger *slog.Logger

	app := &cli.Command{
		Name:      "node-pre-gyp-github",
		Usage:     "publishes the contents of ./build/stage/{version} to the current version's GitHub release",
		Version:   types.Version,
		Writer:    a.stdout,
		ErrWriter: a.stdout,
		Flags:     loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			logger = logger.With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdPublish(a.stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
