package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockfactory/pkg/cli/internal/flags"
	"github.com/getmockd/mockfactory/pkg/cli/internal/parse"
	"github.com/getmockd/mockfactory/pkg/config"
	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// DefaultManifest is loaded when neither --manifest nor MOCKFACTORY_MANIFEST is set.
const DefaultManifest = "mockfactory.yaml"

// EnvManifest names the environment variable holding comma-separated manifest paths.
const EnvManifest = "MOCKFACTORY_MANIFEST"

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	manifests  flags.StringSlice
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// NewRootCmd returns the mockfactory command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "mockfactory",
		Short: "mockfactory builds related fixture records from factory manifests",
		Long: `mockfactory generates fixture data from factory definitions.

Models declare collections and belongs-to / has-many relationships. Factories
declare default attributes, named traits and after-create hooks. Creating a
record also creates the records it belongs to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().VarP(&opts.manifests, "manifest", "m", "Manifest file or glob pattern (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")

	cmd.AddCommand(newCreateCmd(opts), newValidateCmd(opts), newVersionCmd(opts))
	return cmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := fault.HintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func (o *rootOptions) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := logging.FromFlags(o.logLevel, o.logFormat)
	if err != nil {
		return nil, err
	}
	cfg.Output = cmd.ErrOrStderr()
	cfg.Component = "cli"
	return logging.New(cfg), nil
}

func (o *rootOptions) patterns() []string {
	if len(o.manifests) > 0 {
		return o.manifests
	}
	if env := os.Getenv(EnvManifest); env != "" {
		return parse.SplitTrim(env, ",")
	}
	return []string{DefaultManifest}
}

// loadManifest loads and merges every manifest named on the command line.
func (o *rootOptions) loadManifest() (*config.Manifest, error) {
	merged := &config.Manifest{Version: config.CurrentVersion}
	for _, pattern := range o.patterns() {
		var (
			m   *config.Manifest
			err error
		)
		if strings.ContainsAny(pattern, "*?[") {
			m, err = config.LoadGlob(pattern)
		} else {
			m, err = config.LoadFromFile(pattern)
		}
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(m); err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
	}
	return merged, nil
}

// session loads the manifests and opens a fresh factory session over them.
func (o *rootOptions) session(cmd *cobra.Command) (*factory.Session, *config.Manifest, error) {
	logger, err := o.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	m, err := o.loadManifest()
	if err != nil {
		return nil, nil, err
	}
	schema, reg, err := m.Compile()
	if err != nil {
		return nil, nil, err
	}
	s, err := factory.NewSession(schema, reg, factory.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return s, m, nil
}
