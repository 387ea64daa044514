package config

import (
	"github.com/LedgerHQ/node-pre-gyp-github/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Publish holds publish command configuration
type Publish struct {
	Release        bool
	DescriptorPath string
	StageDir       string
	TargetBranch   string
	Concurrency    int
}

// Flags returns CLI flags for publish configuration
func (c *Publish) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "release",
			Aliases:     []string{"r"},
			Usage:       "publish immediately, do not create draft",
			Destination: &c.Release,
		},
		&cli.StringFlag{
			Name:        "descriptor",
			Usage:       "Project descriptor path",
			Value:       usecase.DefaultDescriptorPath,
			Destination: &c.DescriptorPath,
		},
		&cli.StringFlag{
			Name:        "stage-dir",
			Usage:       "Staging root holding one directory per release tag",
			Value:       usecase.DefaultStageDir,
			Destination: &c.StageDir,
		},
		&cli.StringFlag{
			Name:        "target-branch",
			Usage:       "Branch a newly created release points at",
			Value:       usecase.DefaultTargetBranch,
			Destination: &c.TargetBranch,
			Sources:     cli.EnvVars("NODE_PRE_GYP_GITHUB_TARGET_BRANCH"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of files uploaded at once",
			Value:       usecase.DefaultConcurrency,
			Destination: &c.Concurrency,
		},
	}
}

// Draft reports whether a newly created release should be a draft
func (c *Publish) Draft() bool {
	return !c.Release
}
