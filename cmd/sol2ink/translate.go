// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"sol2ink/grammar"
	sterrors "sol2ink/internal/errors"
	"sol2ink/internal/pipeline"
)

var log = commonlog.GetLogger("sol2ink.cli")

// translateCmd translates the contracts of one source file
var translateCmd = &cobra.Command{
	Use:          "translate <file.sol> [contract...]",
	Short:        "Translates the contracts of a source file",
	Long:         "Translates every contract, interface and library of a source file, or only the named ones",
	Args:         cobra.MinimumNArgs(1),
	RunE:         cmdRunTranslate,
	SilenceUsage: true,
}

// checkCmd reports diagnostics without writing output
var checkCmd = &cobra.Command{
	Use:          "check <file.sol> [contract...]",
	Short:        "Reports translation diagnostics without writing output",
	Args:         cobra.MinimumNArgs(1),
	RunE:         cmdRunCheck,
	SilenceUsage: true,
}

func init() {
	flags := translateCmd.Flags()
	flags.StringP("format", "f", formatJSON, "output format: json, cbor or text")
	flags.StringP("out", "o", "", "directory to write one file per contract (default: stdout)")
	flags.Bool("abi", false, "also export the source ABI of every contract and interface")
	addTranslationFlags(flags)
	rootCmd.AddCommand(translateCmd)

	addTranslationFlags(checkCmd.Flags())
	rootCmd.AddCommand(checkCmd)
}

func cmdRunTranslate(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if !validFormat(format) {
		return errors.Errorf("unknown output format %q", format)
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	withABI, err := cmd.Flags().GetBool("abi")
	if err != nil {
		return err
	}

	results, err := run(cmd, args)
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Program != nil {
			data, err := encode(res.Program, format)
			if err != nil {
				return err
			}
			if err := emit(out, res.Contract+"."+format, data); err != nil {
				return err
			}
		}
		if withABI && res.Interface != nil {
			data, err := exportABI(res)
			if err != nil {
				return err
			}
			if err := emit(out, res.Contract+".abi.json", data); err != nil {
				return err
			}
		}
	}
	return nil
}

func cmdRunCheck(cmd *cobra.Command, args []string) error {
	_, err := run(cmd, args)
	return err
}

// run parses and translates, printing diagnostics and a status line. It
// fails when any contract could not be translated.
func run(cmd *cobra.Command, args []string) ([]*pipeline.Result, error) {
	start := time.Now()
	path := args[0]

	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return nil, err
	}
	if err := updateConfigWithFlags(cmd, cfg); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	reporter := sterrors.NewErrorReporter(path, string(source))

	unit, diags, err := grammar.Parse(path, string(source))
	if err != nil {
		return nil, err
	}
	fmt.Fprint(os.Stderr, reporter.FormatAll(diags))
	if unit == nil || sterrors.HasErrors(diags) {
		color.Red("Parsing failed after %s", formatDuration(time.Since(start)))
		return nil, errors.Errorf("%s has errors", path)
	}

	translator, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	defer translator.Close()

	var results []*pipeline.Result
	if len(args) > 1 {
		for _, name := range args[1:] {
			res, err := translator.Translate(unit, name)
			var te *sterrors.TranslationError
			if err != nil && !errors.As(err, &te) {
				return nil, err
			}
			results = append(results, res)
		}
	} else {
		results, err = translator.TranslateAll(context.Background(), unit)
		if err != nil {
			return nil, err
		}
	}

	failed := 0
	for _, res := range results {
		fmt.Fprint(os.Stderr, reporter.FormatAll(res.Diagnostics))
		if res.Program == nil {
			failed++
		}
	}

	duration := formatDuration(time.Since(start))
	if failed > 0 {
		color.Red("Translation failed for %d of %d contracts after %s", failed, len(results), duration)
		return results, errors.Errorf("%d contracts could not be translated", failed)
	}
	color.Green("Successfully translated %d contracts from %s in %s", len(results), path, duration)
	return results, nil
}

// emit writes data to dir/name, or to stdout when no directory is given
func emit(dir, name string, data []byte) error {
	if dir == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WithStack(err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return errors.WithStack(err)
	}
	log.Infof("wrote %s", target)
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
