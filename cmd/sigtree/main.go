// sigtree CLI - wallet signature tree decoder
//
// This CLI decodes multi-signature wallet signatures and prints the signer
// tree so that an operator can see who signed before a transaction is
// relayed.
//
// Example usage:
//
//	# Decode a signature to JSON
//	sigtree decode 0x0000030000000100010000000000000000000000000000000000000000
//
//	# Decode from stdin and print an outline
//	echo 0x... | sigtree decode --format tree -
//
//	# Summarise signers and static signature components
//	sigtree inspect --format yaml 0x...
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/suffix-labs/sigtree/pkg/api"
	"github.com/suffix-labs/sigtree/pkg/sigtree"
)

const version = "v0.1.0"

// errHelp is returned by parseOptions after the flag set printed its usage.
var errHelp = errors.New("help requested")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errors.New("command required")
	}

	command := args[0]

	var err error
	switch command {
	case "decode":
		err = cmdDecode(args[1:], stdin, stdout, stderr)
	case "inspect":
		err = cmdInspect(args[1:], stdin, stdout, stderr)
	case "version":
		cmdVersion(stdout)
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", command)
	}

	if errors.Is(err, errHelp) {
		return nil
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `sigtree - wallet signature tree decoder

Usage:
  sigtree <command> [options] <hex|->

Commands:
  decode <hex|->               Decode a signature and print the envelope
  inspect <hex|->              Decode a signature and print a signer report
  version                      Show version information
  help                         Show this help message

Options (decode, inspect):
  --format json|yaml|tree      Output format (default json)
  --max-depth N                Maximum Branch/Nested nesting (default 64)
  --log-level LEVEL            debug, info, warn or error (default warn)

Input is hex with an optional 0x prefix. Use - to read it from stdin.

Examples:
  sigtree decode 0x0000030000000100010000000000000000000000000000000000000000
  echo 0x... | sigtree inspect --format yaml -`)
}

func cmdVersion(w io.Writer) {
	fmt.Fprintf(w, "sigtree %s\n", version)
	fmt.Fprintln(w, "Decoder for multi-signature wallet signature trees")
}

// options are the flags shared by decode and inspect.
type options struct {
	format   string
	maxDepth int
	logLevel string
	input    string
}

func parseOptions(name string, args []string, stderr io.Writer) (*options, error) {
	var opts options

	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.format, "format", "json", "output format: json, yaml or tree")
	flagSet.IntVar(&opts.maxDepth, "max-depth", sigtree.DefaultMaxDepth, "maximum Branch/Nested nesting")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, errHelp
		}
		return nil, err
	}

	switch opts.format {
	case "json", "yaml", "tree":
	default:
		return nil, fmt.Errorf("unsupported format %q", opts.format)
	}

	rest := flagSet.Args()
	if len(rest) != 1 {
		return nil, fmt.Errorf("%s: exactly one signature argument required, got %d", name, len(rest))
	}
	opts.input = rest[0]

	return &opts, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func readInput(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func cmdDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseOptions("decode", args, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return err
	}

	input, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}
	logger.Debug("decoding signature", "hex_len", len(input), "max_depth", opts.maxDepth)

	env, err := api.DecodeSignatureHex(input, sigtree.WithMaxDepth(opts.maxDepth))
	if err != nil {
		logDecodeFailure(logger, err)
		return err
	}
	logger.Info("decoded signature", "type", env.Type, "threshold", env.Body.Threshold, "checkpoint", env.Body.Checkpoint)

	if opts.format == "tree" {
		_, err := io.WriteString(stdout, env.String())
		return err
	}
	return render(stdout, opts.format, env)
}

func cmdInspect(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseOptions("inspect", args, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return err
	}

	input, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	report, err := api.Inspect(input, sigtree.WithMaxDepth(opts.maxDepth))
	if err != nil {
		logDecodeFailure(logger, err)
		return err
	}
	for _, s := range report.Signatures {
		if s.ParseError != "" {
			logger.Warn("malformed static signature", "path", s.Path, "error", s.ParseError)
		}
	}

	if opts.format == "tree" {
		return printReportTree(stdout, report)
	}
	return render(stdout, opts.format, report)
}

func logDecodeFailure(logger *slog.Logger, err error) {
	var de *sigtree.DecodeError
	if errors.As(err, &de) {
		logger.Debug("decode failed", "code", de.Code, "offset", de.Offset)
	}
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

func printReportTree(w io.Writer, r *api.Report) error {
	fmt.Fprintf(w, "Signature: %s (%d bytes)\n", r.Type, r.Size)
	fmt.Fprintf(w, "  Threshold:  %d\n", r.Threshold)
	fmt.Fprintf(w, "  Checkpoint: %d\n", r.Checkpoint)
	fmt.Fprintf(w, "  Signers:    %d\n", len(r.Stats.Signers))
	fmt.Fprintf(w, "  Signatures: %d static, %d dynamic\n\n", r.Stats.Signatures, r.Stats.DynamicSignatures)

	for _, s := range r.Signatures {
		fmt.Fprintf(w, "%s %s weight=%d len=%d\n", s.Path, s.Kind, s.Weight, s.Length)
		if s.Address != nil {
			fmt.Fprintf(w, "  address: %s\n", strings.ToLower(s.Address.Hex()))
		}
		if s.ParseError != "" {
			fmt.Fprintf(w, "  error:   %s\n", s.ParseError)
		} else if s.Kind == "static" {
			fmt.Fprintf(w, "  v=%d type=%s highS=%t\n", s.V, s.SignatureType, s.HighS)
		}
	}

	fmt.Fprintln(w)
	_, err := io.WriteString(w, sigtree.Format(r.Tree))
	return err
}
