// jac converts Jira ADF JSON to terminal Markdown and back.
//
// By default it reads ADF JSON and writes Markdown. With --reverse it
// reads Markdown and writes pretty-printed ADF JSON. Input comes from the
// file named by the first argument, or stdin when absent or "-".
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rgonek/jira-adf-markdown/converter"
	"github.com/rgonek/jira-adf-markdown/mdconverter"
	"github.com/rgonek/jira-adf-markdown/preview"
	"github.com/spf13/pflag"

	// Time zones named in config must resolve on hosts without zoneinfo.
	_ "time/tzdata"
)

type options struct {
	reverse    bool
	configPath string
	preset     string
	baseURL    string
	warnings   bool
	preview    bool
	width      int
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("jac", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&opts.reverse, "reverse", "r", false, "convert Markdown to ADF JSON")
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML config file with forward: and reverse: sections")
	flagSet.StringVar(&opts.preset, "preset", "", "preset: balanced|strict|lossy (default balanced)")
	flagSet.StringVar(&opts.baseURL, "base-url", "", "Jira site URL used for mention links")
	flagSet.BoolVarP(&opts.warnings, "warnings", "w", false, "log conversion warnings to stderr")
	flagSet.BoolVarP(&opts.preview, "preview", "p", false, "render the Markdown for the terminal")
	flagSet.IntVar(&opts.width, "width", preview.DefaultWidth, "preview wrap width")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: jac [options] [input-file]\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.reverse && opts.preview {
		return errors.New("--preview cannot be combined with --reverse")
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}

	forwardConfig, reverseConfig, err := resolveConfig(opts.configPath, opts)
	if err != nil {
		return err
	}

	input, err := readInput(flagSet.Arg(0), stdin)
	if err != nil {
		return err
	}
	logger.Debug("read input", "bytes", len(input), "reverse", opts.reverse)

	if opts.reverse {
		return runReverse(input, reverseConfig, opts, stdout, logger)
	}
	return runForward(input, forwardConfig, opts, stdout, logger)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func runForward(input []byte, cfg converter.Config, opts options, stdout io.Writer, logger *slog.Logger) error {
	conv, err := converter.New(cfg)
	if err != nil {
		return err
	}
	result, err := conv.Convert(input)
	if err != nil {
		return err
	}
	if opts.warnings {
		logWarnings(logger, result.Warnings)
	}

	if opts.preview {
		_, err = fmt.Fprintln(stdout, preview.Render(result.Markdown, preview.DefaultTheme, opts.width))
		return err
	}
	_, err = io.WriteString(stdout, result.Markdown)
	return err
}

func runReverse(input []byte, cfg mdconverter.ReverseConfig, opts options, stdout io.Writer, logger *slog.Logger) error {
	conv, err := mdconverter.New(cfg)
	if err != nil {
		return err
	}
	result := conv.Convert(string(input))
	if opts.warnings {
		logWarnings(logger, result.Warnings)
	}

	pretty, err := json.MarshalIndent(result.Doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format ADF JSON: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(pretty))
	return err
}

func logWarnings(logger *slog.Logger, warnings converter.Warnings) {
	for _, warning := range warnings {
		attrs := []any{"type", string(warning.Type), "message", warning.Message}
		if warning.Line > 0 {
			attrs = append(attrs, "line", warning.Line)
		}
		if warning.NodeType != "" {
			attrs = append(attrs, "node", warning.NodeType)
		}
		logger.Warn("conversion warning", attrs...)
	}
}
