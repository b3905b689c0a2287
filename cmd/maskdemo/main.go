// Command maskdemo builds an e-beam mask layout and writes its previews.
//
//	maskdemo                 # bundled demo: write field with two etch-slab sweeps
//	maskdemo masks/run7.toml # a recipe file
//
// Run "maskdemo --help" for the flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/maskwork/ebeam/internal/cli"
	ebeamerrors "github.com/maskwork/ebeam/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, ebeamerrors.UserMessage(err))
		os.Exit(1)
	}
}
