package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jluo41/FieldEmbed/internal/kernel"
	"github.com/jluo41/FieldEmbed/internal/vecops"
	"github.com/jluo41/FieldEmbed/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version and backend information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prec := kernel.Init()
			fmt.Printf("version:   %s\n", version.String())
			fmt.Printf("go:        %s\n", runtime.Version())
			fmt.Printf("cpu:       %s\n", strings.Join(vecops.Features(), ", "))
			fmt.Printf("dot/axpy:  %s\n", prec)
			return nil
		},
	}
}
