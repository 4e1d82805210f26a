package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

func verifyCmd(g *globalOptions) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Decode every resource of GCF containers and report errors",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errors.New("verify: no input files")
			}
			_, s, err := g.resolve(cmd, cmd.Root().ErrWriter)
			if err != nil {
				return err
			}
			var errs []error
			for _, res := range scanAll(ctx, files, s) {
				err := res.err
				if err == nil {
					err = res.info.err()
				}
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", res.path, err))
					_, _ = fmt.Fprintf(cmd.Root().Writer, "%s: FAILED: %v\n", res.path, err)
					continue
				}
				_, _ = fmt.Fprintf(cmd.Root().Writer, "%s: ok (%d resources)\n", res.path, len(res.info.Resources))
			}
			return errors.Join(errs...)
		},
	}
}
