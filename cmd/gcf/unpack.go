package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/meigma/gcf"
)

func unpackCmd(g *globalOptions) *cli.Command {
	var out string

	return &cli.Command{
		Name:      "unpack",
		Usage:     "Extract the blob resources of a GCF container as numbered files",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Required: true, Destination: &out},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("unpack: expected exactly one container")
			}
			_, s, err := g.resolve(cmd, cmd.Root().ErrWriter)
			if err != nil {
				return err
			}
			n, err := unpack(ctx, cmd.Args().First(), out, s)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.Root().Writer, "extracted %d blobs to %s\n", n, out)
			return nil
		},
	}
}

// unpack writes every blob of the container at path to dir as
// NNNN.bin, numbered by resource index. Other resources are skipped.
func unpack(ctx context.Context, path, dir string, s settings) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r, err := gcf.NewReader(f, s.readerOptions()...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	var index, extracted int
	for d, err := range r.Descriptors() {
		if err != nil {
			return extracted, fmt.Errorf("%s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return extracted, err
		}
		i := index
		index++

		blob, ok := d.(gcf.BlobDescriptor)
		if !ok {
			s.logger.Info("skipping resource", "index", i, "type", d.Common().Type.String())
			continue
		}
		data, err := r.ReadBlob(blob)
		if err != nil {
			return extracted, fmt.Errorf("%s: resource %d: %w", path, i, err)
		}
		name := filepath.Join(dir, fmt.Sprintf("%04d.bin", i))
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return extracted, err
		}
		extracted++
	}
	return extracted, nil
}
