package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/getmockd/mockfactory/pkg/cli/internal/flags"
	"github.com/getmockd/mockfactory/pkg/cli/internal/output"
	"github.com/getmockd/mockfactory/pkg/cli/internal/parse"
	"github.com/getmockd/mockfactory/pkg/factory"
)

type createOptions struct {
	count      int
	traits     flags.StringSlice
	sets       flags.StringSlice
	selectPath string
	buildOnly  bool
	createdOut bool
}

func newCreateCmd(root *rootOptions) *cobra.Command {
	opts := &createOptions{}
	cmd := &cobra.Command{
		Use:   "create TYPE",
		Short: "Create records of a type and print the resulting data",
		Long: `Create records of TYPE, along with every record they belong to, and print
the whole in-memory database as JSON keyed by collection.

Use --created to print only the records of TYPE, --build to build attribute
maps without storing them, and --select to filter the output with JSONPath.`,
		Example: `  mockfactory create user -m blog.yaml
  mockfactory create post --count 3 --trait published --set title=Hello -m blog.yaml
  mockfactory create post -m blog.yaml --select '$.users[*].name'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of records to create")
	cmd.Flags().VarP(&opts.traits, "trait", "t", "Trait to apply (repeatable)")
	cmd.Flags().Var(&opts.sets, "set", "Attribute override key=value, value parsed as YAML (repeatable)")
	cmd.Flags().StringVar(&opts.selectPath, "select", "", "JSONPath expression applied to the output")
	cmd.Flags().BoolVar(&opts.buildOnly, "build", false, "Build attribute maps without storing them")
	cmd.Flags().BoolVar(&opts.createdOut, "created", false, "Print only the created records instead of the database")
	return cmd
}

func runCreate(cmd *cobra.Command, root *rootOptions, opts *createOptions, typeName string) error {
	overrides, err := parse.Assignments(opts.sets)
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		overrides = nil
	}

	s, _, err := root.session(cmd)
	if err != nil {
		return err
	}
	fo := factory.Options{Traits: opts.traits, Overrides: overrides}

	var result any
	switch {
	case opts.buildOnly:
		result, err = s.BuildList(typeName, opts.count, fo)
	case opts.createdOut:
		result, err = s.CreateList(typeName, opts.count, fo)
	default:
		if _, err = s.CreateList(typeName, opts.count, fo); err == nil {
			result = s.DB().Dump()
		}
	}
	if err != nil {
		return err
	}

	if opts.selectPath != "" {
		if result, err = selectPath(result, opts.selectPath); err != nil {
			return err
		}
	}
	return output.JSON(cmd.OutOrStdout(), result)
}

// selectPath evaluates a JSONPath expression against the JSON form of data.
func selectPath(data any, path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid --select expression %q: %w", path, err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := oj.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	matches := x.Get(doc)
	if matches == nil {
		matches = []any{}
	}
	return matches, nil
}
