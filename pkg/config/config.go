// Package config loads collection definitions from a YAML file.
package config

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/henderiw/collector/pkg/collection"
	"github.com/henderiw/collector/pkg/formula"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/labels"
)

type Config struct {
	Collections []Collection `mapstructure:"collections" yaml:"collections"`
}

// Collection describes one collection. Viper lowercases map keys, so label
// keys are always lowercase.
type Collection struct {
	Name    string            `mapstructure:"name" yaml:"name"`
	First   int64             `mapstructure:"first" yaml:"first"`
	Last    int64             `mapstructure:"last" yaml:"last"`
	Labels  map[string]string `mapstructure:"labels" yaml:"labels,omitempty"`
	Formula string            `mapstructure:"formula" yaml:"formula"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid collection at once.
func (r *Config) Validate() error {
	var errs error
	seen := map[string]struct{}{}
	for i, c := range r.Collections {
		if c.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("collection %d has no name", i))
			continue
		}
		if _, ok := seen[c.Name]; ok {
			errs = errors.Join(errs, fmt.Errorf("collection %s is defined twice", c.Name))
		}
		seen[c.Name] = struct{}{}
		if c.First > c.Last {
			errs = errors.Join(errs, fmt.Errorf("collection %s: first %d is bigger then last %d", c.Name, c.First, c.Last))
		}
		if _, err := labels.ValidatedSelectorFromSet(c.Labels); err != nil {
			errs = errors.Join(errs, fmt.Errorf("collection %s: %w", c.Name, err))
		}
		if _, err := formula.Parse(c.Formula); err != nil {
			errs = errors.Join(errs, fmt.Errorf("collection %s: %w", c.Name, err))
		}
	}
	return errs
}

// Registry builds a registry holding the configured collections.
func (r *Config) Registry(log logr.Logger) (*collection.Registry, error) {
	reg := collection.NewRegistry(log)
	for _, c := range r.Collections {
		col, err := c.build()
		if err != nil {
			return nil, err
		}
		if err := reg.Add(col); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r Collection) build() (collection.Collection, error) {
	col, err := collection.New(r.Name, r.First, r.Last, labels.Set(r.Labels))
	if err != nil {
		return nil, err
	}
	f, err := formula.Parse(r.Formula)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", r.Name, err)
	}
	if err := col.SetFormula(f); err != nil {
		return nil, fmt.Errorf("collection %s: %w", r.Name, err)
	}
	return col, nil
}
