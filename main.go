package main

import (
	"context"
	"os"

	"github.com/LedgerHQ/node-pre-gyp-github/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
