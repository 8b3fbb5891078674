// Command humlfmt formats, validates, and converts HUML documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logCfg := newLogConfig()

	rootCmd := &cobra.Command{
		Use:           "humlfmt",
		Short:         "Format, validate, and convert HUML documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	logCfg.registerFlags(rootCmd.PersistentFlags())
	if err := logCfg.registerCompletions(rootCmd); err != nil {
		fmt.Fprintf(stderr, "register completions: %v\n", err)
	}

	newLogger := func() (*slog.Logger, error) {
		handler, err := logCfg.newHandler(stderr)
		if err != nil {
			return nil, err
		}
		return slog.New(handler), nil
	}

	rootCmd.AddCommand(
		newFmtCmd(newLogger, stdout),
		newCheckCmd(newLogger, stdout),
		newConvertCmd(newLogger, stdout),
		newEmitCmd(newLogger, stdout),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func newFmtCmd(newLogger func() (*slog.Logger, error), w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "fmt <file>",
		Short:         "Parse a HUML document and print its canonical re-serialization",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			return runFmt(logger, w, args[0])
		},
	}
}

func newCheckCmd(newLogger func() (*slog.Logger, error), w io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "check <file>",
		Short:         "Validate a HUML document, reporting the first error found",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			return runCheck(logger, w, args[0])
		},
	}
}

func newConvertCmd(newLogger func() (*slog.Logger, error), w io.Writer) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:           "convert <file>",
		Short:         "Convert a YAML, TOML, or JSON document to canonical HUML",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			format, err := parseSourceFormat(from)
			if err != nil {
				return err
			}
			return runConvert(logger, w, args[0], format)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source format: yaml, toml, or json")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.RegisterFlagCompletionFunc("from",
		cobra.FixedCompletions([]string{"yaml", "toml", "json"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func newEmitCmd(newLogger func() (*slog.Logger, error), w io.Writer) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:           "emit <file>",
		Short:         "Convert a HUML document to YAML, TOML, or JSON",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			format, err := parseSourceFormat(to)
			if err != nil {
				return err
			}
			return runEmit(logger, w, args[0], format)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target format: yaml, toml, or json")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.RegisterFlagCompletionFunc("to",
		cobra.FixedCompletions([]string{"yaml", "toml", "json"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func parseSourceFormat(s string) (sourceFormat, error) {
	switch sourceFormat(s) {
	case formatYAML, formatTOML, formatJSON:
		return sourceFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: want yaml, toml, or json", s)
	}
}
