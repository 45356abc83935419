package main

import (
	"fmt"
	"io"

	"github.com/henderiw/collector/pkg/formula"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/labels"
)

func newEvalCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval FORMULA",
		Short: "Print the canonical form and item count of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formula.Parse(args[0])
			if err != nil {
				return err
			}
			return o.printFormula(cmd.OutOrStdout(), f)
		},
	}
}

func newUnionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "union FORMULA...",
		Short: "Print the items of any of the formulas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseAll(args)
			if err != nil {
				return err
			}
			result := fs[0]
			for _, f := range fs[1:] {
				result = result.Add(f)
			}
			return o.printFormula(cmd.OutOrStdout(), result)
		},
	}
}

func newDiffCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FORMULA FORMULA",
		Short: "Print the items of the first formula that are not in the second",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseAll(args)
			if err != nil {
				return err
			}
			return o.printFormula(cmd.OutOrStdout(), fs[0].Remove(fs[1]))
		},
	}
}

func newListCmd(o *options) *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := labels.Parse(selector)
			if err != nil {
				return fmt.Errorf("invalid selector %q: %w", selector, err)
			}
			reg, err := o.registry()
			if err != nil {
				return err
			}
			results := []collectionResult{}
			for _, c := range reg.GetByLabel(sel) {
				results = append(results, newCollectionResult(c))
			}
			return o.print(cmd.OutOrStdout(), results, func(w io.Writer) {
				for _, r := range results {
					fmt.Fprintf(w, "%s\t%d/%d\t%s\n", r.Name, r.Count, r.Last-r.First+1, r.Formula)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "l", "", "label selector, e.g. kind=stamp")
	return cmd
}

func newMissingCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "missing NAME",
		Short: "Print the items a collection is missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := o.registry()
			if err != nil {
				return err
			}
			c, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			return o.printFormula(cmd.OutOrStdout(), c.Missing())
		},
	}
}

func parseAll(args []string) ([]*formula.Formula, error) {
	fs := make([]*formula.Formula, 0, len(args))
	for _, arg := range args {
		f, err := formula.Parse(arg)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}

func (o *options) printFormula(w io.Writer, f *formula.Formula) error {
	return o.print(w, newFormulaResult(f), func(w io.Writer) {
		fmt.Fprintf(w, "%s (%d items)\n", f, f.ElementCount())
	})
}
