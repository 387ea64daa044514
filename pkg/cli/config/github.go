package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub API configuration
type GitHub struct {
	Token  string `masq:"secret"`
	APIURL string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to create releases and upload assets",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint (default: https://api.{host}/ derived from repository.url)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("NODE_PRE_GYP_GITHUB_API_URL"),
		},
	}
}
