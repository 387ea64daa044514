package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/cli/config"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/model"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/domain/types"
	githubinfra "github.com/LedgerHQ/node-pre-gyp-github/pkg/infra/github"
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdPublish(w io.Writer) *cli.Command {
	var (
		publishCfg config.Publish
		githubCfg  config.GitHub
	)

	flags := append(publishCfg.Flags(), githubCfg.Flags()...)

	return &cli.Command{
		Name:  "publish",
		Usage: "publishes the contents of ./build/stage/{version} to the current version's GitHub release",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Checked before anything else is read
			if githubCfg.Token == "" {
				return goerr.New("GH_TOKEN environment variable not found", goerr.T(types.ErrTagConfig))
			}

			logger := ctxlog.From(ctx)
			logger.Debug("Publish configuration",
				"publish", publishCfg,
				"github", githubCfg,
			)

			var clientOpts []githubinfra.Option
			if githubCfg.APIURL != "" {
				clientOpts = append(clientOpts, githubinfra.WithBaseURL(githubCfg.APIURL))
			}

			uc := usecase.NewPublish(
				githubinfra.NewFactory(clientOpts...),
				usecase.WithDescriptorPath(publishCfg.DescriptorPath),
				usecase.WithStageDir(publishCfg.StageDir),
				usecase.WithTargetBranch(publishCfg.TargetBranch),
				usecase.WithConcurrency(publishCfg.Concurrency),
			)

			result, err := uc.Publish(ctx, model.PublishOptions{
				Draft: publishCfg.Draft(),
				Token: githubCfg.Token,
			})
			if result != nil && result.Report != nil {
				printReport(w, result)
			}
			return err
		},
	}
}

func printReport(w io.Writer, result *model.PublishResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	fmt.Fprintf(w, "%s release %s\n", result.Repository.FullName(), result.Release.TagName)
	for _, o := range result.Report.Outcomes {
		switch o.Status {
		case model.UploadStatusUploaded:
			green.Fprintf(w, "  uploaded  %s (%d bytes)\n", o.Name, o.Size)
		case model.UploadStatusSkipped:
			yellow.Fprintf(w, "  skipped   %s (already exists)\n", o.Name)
		case model.UploadStatusFailed:
			red.Fprintf(w, "  failed    %s: %v\n", o.Name, o.Err)
		}
	}
}
