package main

import (
	goflag "flag"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/henderiw/collector/pkg/collection"
	"github.com/henderiw/collector/pkg/config"
	"github.com/henderiw/collector/pkg/formula"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

const (
	outputText = "text"
	outputYAML = "yaml"
)

type options struct {
	configPath string
	output     string
	log        logr.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:           "collector",
		Short:         "Track the owned items of numbered collections",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.output != outputText && o.output != outputYAML {
				return fmt.Errorf("unknown output format %q, use %s or %s", o.output, outputText, outputYAML)
			}
			o.log = klog.NewKlogr().WithName("collector")
			return nil
		},
	}

	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	cmd.PersistentFlags().AddGoFlagSet(fs)
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "collector.yaml", "collections config file")
	cmd.PersistentFlags().StringVarP(&o.output, "output", "o", outputText, "output format: text or yaml")

	cmd.AddCommand(
		newEvalCmd(o),
		newUnionCmd(o),
		newDiffCmd(o),
		newListCmd(o),
		newMissingCmd(o),
	)
	return cmd
}

func (o *options) registry() (*collection.Registry, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	o.log.V(2).Info("loaded config", "path", o.configPath, "collections", len(cfg.Collections))
	return cfg.Registry(o.log)
}

type formulaResult struct {
	Formula string `yaml:"formula"`
	Count   uint64 `yaml:"count"`
}

func newFormulaResult(f *formula.Formula) formulaResult {
	return formulaResult{Formula: f.String(), Count: f.ElementCount()}
}

type collectionResult struct {
	Name         string            `yaml:"name"`
	Labels       map[string]string `yaml:"labels,omitempty"`
	First        int64             `yaml:"first"`
	Last         int64             `yaml:"last"`
	Formula      string            `yaml:"formula"`
	Count        uint64            `yaml:"count"`
	Missing      string            `yaml:"missing"`
	MissingCount uint64            `yaml:"missingCount"`
}

func newCollectionResult(c collection.Collection) collectionResult {
	f, missing := c.Formula(), c.Missing()
	return collectionResult{
		Name:         c.Name(),
		Labels:       c.Labels(),
		First:        c.Bounds().First(),
		Last:         c.Bounds().Last(),
		Formula:      f.String(),
		Count:        f.ElementCount(),
		Missing:      missing.String(),
		MissingCount: missing.ElementCount(),
	}
}

func (o *options) print(w io.Writer, v any, text func(w io.Writer)) error {
	if o.output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	text(w)
	return nil
}
