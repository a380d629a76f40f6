package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/segb/internal/cliconfig"
	"github.com/bft-labs/segb/internal/render"
	"github.com/bft-labs/segb/internal/watch"
	"github.com/bft-labs/segb/pkg/format"
	"github.com/bft-labs/segb/pkg/log"
	"github.com/bft-labs/segb/pkg/segb1"
	"github.com/bft-labs/segb/pkg/segb2"
)

const longHelp = `Dump the records of an Apple SEGB container (v1 or v2).

Each record is printed with its data offset, timestamps (v1) or creation
timestamp and state (v2), followed by a hex view of its payload. The
revision is detected from the file magic unless --revision is given.`

var exampleUsage = strings.TrimSpace(`
  segbdump /path/to/Biome/streams/public/App.InFocus/local/000001
  segbdump --output json --revision 2 store.segb
  segbdump --follow store.segb
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "segbdump <file>",
		Short:   "Dump the records of an Apple SEGB container",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage is only useful for argument errors.
			cmd.SilenceUsage = true

			// Precedence: flags > env > config file > defaults.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.NewZerologAdapter(cmd.ErrOrStderr(), cfg.LogLevel)
			logger.Debug("configuration", log.Any("config", cfg))

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			d := &dumper{cfg: cfg, path: args[0], out: out, logger: logger}
			if err := d.dump(ctx); err != nil {
				return err
			}
			if !cfg.Follow {
				return nil
			}

			w := watch.New(d.path, cfg.Debounce, logger)
			return w.Run(ctx, func(ctx context.Context) {
				if err := d.dump(ctx); err != nil {
					logger.Error("segbdump", log.String("path", d.path), log.Err(err))
				}
			})
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.segbdump/config.toml)")
	root.Flags().StringVar(&cfg.Revision, "revision", cfg.Revision, "SEGB revision: auto, 1 or 2")
	root.Flags().StringVar(&cfg.Output, "output", cfg.Output, "output format: text or json")
	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "bytes per hex view line")
	root.Flags().IntVar(&cfg.MaxBytes, "max-bytes", cfg.MaxBytes, "bytes of each payload to show (0 = all)")
	root.Flags().BoolVar(&cfg.ShowOffset, "show-offset", cfg.ShowOffset, "show offsets in the hex view")
	root.Flags().BoolVar(&cfg.ShowASCII, "show-ascii", cfg.ShowASCII, "show ASCII in the hex view")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "re-dump the file whenever it changes")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay before re-dumping after a change")

	return root
}

// dumper decodes path from scratch on every call.
type dumper struct {
	cfg    cliconfig.Config
	path   string
	out    io.Writer
	logger log.Logger
}

func (d *dumper) dump(ctx context.Context) error {
	f, err := os.Open(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	rev, err := d.revision(f)
	if err != nil {
		return err
	}

	rnd := render.New(d.out, d.cfg.Output, d.cfg.HexOptions())
	var n int
	switch rev {
	case format.V1:
		r, err := segb1.NewReader(f, segb1.WithLogger(d.logger))
		if err != nil {
			return err
		}
		n, err = rnd.DumpV1(ctx, r)
		if err != nil {
			return err
		}
	case format.V2:
		r, err := segb2.NewReader(f, segb2.WithLogger(d.logger))
		if err != nil {
			return err
		}
		n, err = rnd.DumpV2(ctx, r)
		if err != nil {
			return err
		}
	}

	d.logger.Info("decoded", log.String("path", d.path), log.String("revision", rev.String()), log.Int("entries", n))
	return nil
}

func (d *dumper) revision(f io.ReadSeeker) (format.Revision, error) {
	switch d.cfg.Revision {
	case cliconfig.Revision1:
		return format.V1, nil
	case cliconfig.Revision2:
		return format.V2, nil
	default:
		return format.Detect(f)
	}
}
