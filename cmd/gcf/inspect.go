package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func inspectCmd(g *globalOptions) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header and resources of GCF containers",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return errors.New("inspect: no input files")
			}
			_, s, err := g.resolve(cmd, cmd.Root().ErrWriter)
			if err != nil {
				return err
			}
			results := scanAll(ctx, files, s)
			infos := make([]containerInfo, 0, len(results))
			for _, res := range results {
				if res.err != nil {
					return fmt.Errorf("%s: %w", res.path, res.err)
				}
				infos = append(infos, res.info)
			}
			if asJSON {
				return writeJSON(cmd.Root().Writer, infos)
			}
			for _, info := range infos {
				writeText(cmd.Root().Writer, info)
			}
			return nil
		},
	}
}

// scanResult is the outcome of scanning one container.
type scanResult struct {
	path string
	info containerInfo
	err  error
}

// scanAll scans files concurrently and returns their results in argument
// order. A failure in one container does not stop the others.
func scanAll(ctx context.Context, files []string, s settings) []scanResult {
	results := make([]scanResult, len(files))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		eg.Go(func() error {
			info, err := scanContainer(ctx, path, s)
			results[i] = scanResult{path: path, info: info, err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func writeJSON(w io.Writer, infos []containerInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(infos)
}

func writeText(w io.Writer, info containerInfo) {
	padding := "padded"
	if !info.Padded {
		padding = "unpadded"
	}
	fmt.Fprintf(w, "%s: version %d, %d resources, %s\n", info.Path, info.Version, info.ResourceCount, padding)
	for _, r := range info.Resources {
		fmt.Fprintf(w, "  #%d %-8s offset=%d format=%s scheme=%s content=%d",
			r.Index, r.Type, r.Offset, r.Format, r.Scheme, r.ContentSize)
		if r.UncompressedSize != nil {
			fmt.Fprintf(w, " uncompressed=%d", *r.UncompressedSize)
		}
		if t := r.Texture; t != nil {
			fmt.Fprintf(w, " %s %dx%dx%d layers=%d mips=%d group=%d",
				t.Dimension, t.Width, t.Height, t.Depth, t.Layers, t.MipLevels, t.Group)
		}
		if r.Error != "" {
			fmt.Fprintf(w, " error=%q\n", r.Error)
			continue
		}
		fmt.Fprintf(w, " %s\n", r.Digest)
	}
}
