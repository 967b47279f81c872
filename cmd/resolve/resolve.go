// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/TylerBrock/colorjson"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/scriptdir/internal/color"
	"github.com/matt-FFFFFF/scriptdir/internal/workdir"
	"github.com/urfave/cli/v3"
)

const (
	outputFlag = "output"

	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	// ErrNoScripts is returned when no script paths are given.
	ErrNoScripts = errors.New("please provide at least one script")
	// ErrUnknownOutput is returned for an unsupported output format.
	ErrUnknownOutput = errors.New("unknown output format")
	// ErrWriteResults is returned when the results cannot be written.
	ErrWriteResults = errors.New("failed to write results")
)

// Resolution is the directory a script scope would enter.
type Resolution struct {
	Script string `json:"script" yaml:"script"`
	Dir    string `json:"dir" yaml:"dir"`
}

// ResolveCmd prints the directories that scripts resolve to.
var ResolveCmd = NewResolveCmd()

// NewResolveCmd returns a fresh resolve command.
func NewResolveCmd() *cli.Command {
	return &cli.Command{
		Name:        "resolve",
		Usage:       "Show the directory each script would run in",
		Description: "Resolve each SCRIPT to its absolute, symlink-free directory without changing directory.",
		ArgsUsage:   "SCRIPT [SCRIPT...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "Output format, one of: text, json, yaml",
				Value:   outputText,
				Validator: func(s string) error {
					if !slices.Contains([]string{outputText, outputJSON, outputYAML}, s) {
						return fmt.Errorf("%w: %q", ErrUnknownOutput, s)
					}

					return nil
				},
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	scripts := cmd.Args().Slice()
	if len(scripts) == 0 {
		return cli.Exit(ErrNoScripts.Error(), 1)
	}

	res, err := Resolve(scripts)

	if werr := Write(cmd.Root().Writer, cmd.String(outputFlag), res); werr != nil {
		return cli.Exit(werr.Error(), 1)
	}

	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

// Resolve resolves every script. Scripts that fail are left out of the
// results and reported together in the returned error.
func Resolve(scripts []string) ([]Resolution, error) {
	var (
		res    = make([]Resolution, 0, len(scripts))
		result *multierror.Error
	)

	for _, s := range scripts {
		dir, err := workdir.ScriptDir(s)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", s, err))
			continue
		}

		res = append(res, Resolution{Script: s, Dir: dir})
	}

	return res, result.ErrorOrNil()
}

// Write renders the results in the given format.
func Write(w io.Writer, format string, res []Resolution) error {
	var (
		out []byte
		err error
	)

	switch format {
	case outputText, "":
		for _, r := range res {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Script, r.Dir); err != nil {
				return errors.Join(ErrWriteResults, err)
			}
		}

		return nil
	case outputJSON:
		out, err = marshalJSON(res)
	case outputYAML:
		out, err = yaml.Marshal(res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}

	if err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}

	if _, err := w.Write(out); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}

func marshalJSON(res []Resolution) ([]byte, error) {
	if !color.Enabled() {
		return json.MarshalIndent(res, "", "  ")
	}

	b, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}

	var generic []any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}

	f := colorjson.NewFormatter()
	f.Indent = 2

	return f.Marshal(generic)
}
