package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vac/log"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files such
// as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags (e.g., "log-level"); underscores may be
//     used in place of hyphens (e.g., "log_level")
//   - Nested mappings are flattened by joining keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Sequences are joined with commas
//   - Numbers are passed to Kong as strings
//
// Example config file:
//
//	log-level: debug
//	log-format: json
//	log-pretty: false
//
// Command-line flags override config file values. A document that fails to
// parse is ignored.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := val.(type) {
		case map[string]any:
			c.flatten(key, v)

		default:
			if s, ok := scalar(v); ok {
				c[key] = s
			}
		}
	}
}

// scalar converts a decoded YAML value into a form accepted by Kong's
// mappers. Null values are dropped.
func scalar(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false

	case bool, string:
		return v, true

	case []any:
		items := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := scalar(item); ok {
				items = append(items, fmt.Sprint(s))
			}
		}

		return strings.Join(items, ","), true

	default:
		return fmt.Sprint(v), true
	}
}
