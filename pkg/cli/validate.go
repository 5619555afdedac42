package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockfactory/pkg/cli/internal/output"
	"github.com/getmockd/mockfactory/pkg/inflect"
)

// ValidateOutput is the JSON form of a successful validation.
type ValidateOutput struct {
	Valid     bool                `json:"valid"`
	Models    map[string]string   `json:"models"`
	Factories map[string][]string `json:"factories"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate manifests without creating records",
		Long: `Validate manifests without creating records.

This command checks:
  - YAML / JSON syntax
  - Schema validation (known keys, value forms, hook steps)
  - Relationship targets and factory extends chains
  - Attribute and hook expressions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, m, err := root.session(cmd)
			if err != nil {
				return err
			}

			out := ValidateOutput{
				Valid:     true,
				Models:    make(map[string]string),
				Factories: make(map[string][]string),
			}
			schema := s.Schema()
			for _, name := range schema.Models() {
				out.Models[name] = schema.ToCollectionName(name)
			}
			for name, fc := range m.Factories {
				traits := make([]string, 0)
				if fc != nil {
					for trait := range fc.Traits {
						traits = append(traits, trait)
					}
				}
				out.Factories[inflect.Camelize(name)] = sortStrings(traits)
			}

			if root.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Manifest valid: %d models, %d factories\n", len(out.Models), len(out.Factories))
			tw := output.Table(w)
			fmt.Fprintln(tw, "FACTORY\tTRAITS")
			for _, name := range sortStrings(keys(out.Factories)) {
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(out.Factories[name], ", "))
			}
			return tw.Flush()
		},
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
