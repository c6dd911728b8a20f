// Package catalog loads the wizard's option catalogs: products, destinations,
// and purchased materials. The embedded defaults ship with the binary; a
// plant can override them with a YAML file pointed at by configuration.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var embeddedOptions []byte

type optionsFile struct {
	Products     []string `yaml:"products"`
	Destinations []string `yaml:"destinations"`
	Purchased    []string `yaml:"purchased"`
}

// Load returns the embedded default catalogs.
func Load() (domain.Options, error) {
	return parse(embeddedOptions)
}

// LoadFromFile reads catalogs from a plant-maintained override file.
func LoadFromFile(path string) (domain.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Options{}, fmt.Errorf("read option catalog %s: %w", path, err)
	}
	opts, err := parse(data)
	if err != nil {
		return domain.Options{}, fmt.Errorf("parse option catalog %s: %w", path, err)
	}
	return opts, nil
}

func parse(data []byte) (domain.Options, error) {
	var file optionsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return domain.Options{}, fmt.Errorf("decode yaml: %w", err)
	}

	products, err := cleanList("products", file.Products)
	if err != nil {
		return domain.Options{}, err
	}
	destinations, err := cleanList("destinations", file.Destinations)
	if err != nil {
		return domain.Options{}, err
	}
	purchased, err := cleanList("purchased", file.Purchased)
	if err != nil {
		return domain.Options{}, err
	}

	return domain.Options{
		Products:     products,
		Destinations: destinations,
		Purchased:    purchased,
	}, nil
}

func cleanList(name string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("catalog list %q is empty", name)
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, fmt.Errorf("catalog list %q contains a blank entry", name)
		}
		if _, dup := seen[trimmed]; dup {
			return nil, fmt.Errorf("catalog list %q contains duplicate entry %q", name, trimmed)
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out, nil
}
