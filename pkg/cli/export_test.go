package cli

import (
	"context"
	"io"
)

// RunWithWriter runs the CLI application writing all output to w
func RunWithWriter(ctx context.Context, w io.Writer, args []string) error {
	return newApp(w).Run(ctx, args)
}
