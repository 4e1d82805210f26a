package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/meigma/gcf"
	"github.com/meigma/gcf/compression"
)

// Manifest lists the files to pack. Relative paths are resolved against
// the manifest's directory.
type Manifest struct {
	Scheme    string          `yaml:"scheme"`
	Unpadded  *bool           `yaml:"unpadded"`
	Resources []ManifestEntry `yaml:"resources"`
}

// ManifestEntry is one file of a Manifest. An empty Scheme uses the
// manifest or command default.
type ManifestEntry struct {
	Path   string `yaml:"path"`
	Scheme string `yaml:"scheme"`
}

func loadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, e := range m.Resources {
		if e.Path == "" {
			return Manifest{}, fmt.Errorf("manifest %s: resource %d has no path", path, i)
		}
		if !filepath.IsAbs(e.Path) {
			m.Resources[i].Path = filepath.Join(dir, e.Path)
		}
	}
	return m, nil
}

type packEntry struct {
	path   string
	scheme compression.Scheme
}

type packedBlob struct {
	desc    gcf.BlobDescriptor
	content []byte
}

func packCmd(g *globalOptions) *cli.Command {
	var (
		out          string
		schemeName   string
		unpadded     bool
		manifestPath string
	)

	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack files into a GCF container as blob resources",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output container path", Required: true, Destination: &out},
			&cli.StringFlag{Name: "scheme", Usage: "supercompression scheme (none, zlib, deflate, zstd, lz4)", Destination: &schemeName},
			&cli.BoolFlag{Name: "unpadded", Usage: "do not align resource records", Destination: &unpadded},
			&cli.StringFlag{Name: "manifest", Usage: "YAML manifest listing files to pack", Destination: &manifestPath},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, s, err := g.resolve(cmd, cmd.Root().ErrWriter)
			if err != nil {
				return err
			}

			var m Manifest
			if manifestPath != "" {
				if m, err = loadManifest(manifestPath); err != nil {
					return err
				}
				if m.Scheme != "" {
					if s.scheme, err = compression.ParseScheme(m.Scheme); err != nil {
						return fmt.Errorf("manifest scheme: %w", err)
					}
				}
				if m.Unpadded != nil {
					s.unpadded = *m.Unpadded
				}
			}
			if cmd.IsSet("scheme") {
				if s.scheme, err = compression.ParseScheme(schemeName); err != nil {
					return fmt.Errorf("--scheme: %w", err)
				}
			}
			if cmd.IsSet("unpadded") {
				s.unpadded = unpadded
			}

			var entries []packEntry
			for _, e := range m.Resources {
				scheme := s.scheme
				if e.Scheme != "" {
					if scheme, err = compression.ParseScheme(e.Scheme); err != nil {
						return fmt.Errorf("manifest entry %s: %w", e.Path, err)
					}
				}
				entries = append(entries, packEntry{path: e.Path, scheme: scheme})
			}
			for _, path := range cmd.Args().Slice() {
				entries = append(entries, packEntry{path: path, scheme: s.scheme})
			}
			if len(entries) == 0 {
				return errors.New("pack: no input files")
			}
			return pack(ctx, out, entries, s)
		},
	}
}

// pack compresses entries concurrently and writes them to a new container
// at out in entry order.
func pack(ctx context.Context, out string, entries []packEntry, s settings) (err error) {
	for _, e := range entries {
		if !s.registry.Has(e.scheme) {
			return fmt.Errorf("%s: %w: %s", e.path, compression.ErrUnknownScheme, e.scheme)
		}
	}

	blobs := make([]packedBlob, len(entries))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(e.path)
			if err != nil {
				return err
			}
			desc, content, err := gcf.CompressBlob(s.registry, data, e.scheme)
			if err != nil {
				return fmt.Errorf("%s: %w", e.path, err)
			}
			blobs[i] = packedBlob{desc: desc, content: content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(out)
		}
	}()

	w, err := gcf.NewWriter(f,
		gcf.WithRegistry(s.registry),
		gcf.WithLogger(s.logger),
		gcf.WithVersion(s.version),
		gcf.WithUnpadded(s.unpadded))
	if err != nil {
		return err
	}
	for i, b := range blobs {
		if err := w.AddRaw(b.desc, b.content); err != nil {
			return fmt.Errorf("%s: %w", entries[i].path, err)
		}
		s.logger.Info("packed",
			"path", entries[i].path,
			"scheme", b.desc.SupercompressionScheme.String(),
			"size", b.desc.UncompressedSize,
			"compressed", b.desc.ContentSize)
	}
	return w.Close()
}
