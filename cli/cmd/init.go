package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vac/log"
	"github.com/ardnew/vac/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// defaultFileMode is the permission mode of a generated configuration file.
const defaultFileMode os.FileMode = 0o600

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := vars(ctx)[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	settings := i.settings(ctx)

	data, err := yaml.MarshalContext(ctx, settings,
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.WriteFile(confPath, data, defaultFileMode)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", len(settings)))

	return nil
}

// settings collects the current value of every configurable flag, in the
// order kong declares them.
func (i *Init) settings(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	var items yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := i.flagValue(ktx, flag); ok {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return items
}

// flagValue returns the value of flag to persist, or false if it is unset.
func (*Init) flagValue(ktx *kong.Context, flag *kong.Flag) (any, bool) {
	val := ktx.FlagValue(flag)

	switch v := val.(type) {
	case nil:
		return nil, false

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true

	case interface{ String() string }:
		return v.String(), true

	default:
		return v, true
	}
}
