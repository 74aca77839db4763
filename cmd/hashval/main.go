package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	hashval "github.com/mattkeenan/hashval/pkg"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, setupSignalHandler()))
}

// app carries the state shared by all commands
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	config   *hashval.Config
	hasher   *hashval.Hasher
	format   string
	workers  int
	shutdown <-chan struct{}
}

func defineOptions() *ParsedOptions {
	options := NewParsedOptions()
	options.DefineOption("config", "c", OptionTypeString, "", "Configuration file (created with defaults if missing)")
	options.DefineOption("format", "f", OptionTypeString, "", "Value format: hex, dec, bin, multihash")
	options.DefineOption("workers", "w", OptionTypeInt, "", "Number of concurrent hash workers")
	options.DefineOption("verbose", "v", OptionTypeInt, "", "Verbose level 0-3 (-vvv for trace)")
	options.DefineOption("debug", "d", OptionTypeString, "", "Debug flags (comma-separated, e.g. vfs)")
	options.DefineOption("override", "o", OptionTypeList, "", "Config override key:value (repeatable)")
	options.DefineOption("help", "h", OptionTypeBool, "", "Show help")
	options.DefineOption("version", "", OptionTypeBool, "", "Show version")
	return options
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer, shutdown <-chan struct{}) int {
	options := defineOptions()
	if err := options.Parse(args); err != nil {
		fmt.Fprintf(stderr, "hashval: %v\n", err)
		showUsage(stderr)
		return 2
	}

	if options.GetBool("help") {
		showHelp(stdout, options)
		return 0
	}
	if options.GetBool("version") {
		fmt.Fprintf(stdout, "hashval %s\n", version)
		return 0
	}

	rest := options.GetArgs()
	if len(rest) == 0 {
		showUsage(stderr)
		return 2
	}

	a, err := newApp(options, stdout, stderr, shutdown)
	if err != nil {
		fmt.Fprintf(stderr, "hashval: %v\n", err)
		return 2
	}

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "hash":
		return a.cmdHash(cmdArgs)
	case "string":
		return a.cmdString(cmdArgs)
	case "convert":
		return a.cmdConvert(cmdArgs)
	case "manifest":
		return a.cmdManifest(cmdArgs)
	case "check":
		return a.cmdCheck(cmdArgs)
	case "help":
		showHelp(stdout, options)
		return 0
	default:
		fmt.Fprintf(stderr, "hashval: unknown command '%s'\n", command)
		showUsage(stderr)
		return 2
	}
}

// newApp loads the configuration, applies command-line overrides and builds the hasher
func newApp(options *ParsedOptions, stdout, stderr io.Writer, shutdown <-chan struct{}) (*app, error) {
	config, err := hashval.LoadConfig(options.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(options.GetList("override")); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	all := config.GetAllConfig()

	level := all.Verbose.Level
	if options.IsSet("verbose") {
		level = options.GetInt("verbose")
	}
	if err := hashval.ValidateVerboseLevel(level); err != nil {
		return nil, err
	}
	hashval.SetVerboseLevel(level)

	debug := all.Verbose.Debug
	if options.IsSet("debug") {
		debug = options.GetString("debug")
	}
	hashval.SetDebugFlags(debug)

	format := all.Output.Format
	if options.IsSet("format") {
		format = options.GetString("format")
		if err := hashval.ValidateOutputFormat(format); err != nil {
			return nil, err
		}
	}

	workers := all.Performance.HashWorkers
	if options.IsSet("workers") {
		workers = options.GetInt("workers")
		if err := hashval.ValidateHashWorkers(workers); err != nil {
			return nil, err
		}
	}

	hasher, err := config.NewHasherFromConfig(hashval.OSFileSystem{})
	if err != nil {
		return nil, err
	}

	hashval.VerboseLog(2, "digest=%s format=%s workers=%d buffer=%d",
		all.Digest.Algorithm, format, workers, hasher.BufferSize)

	return &app{
		stdout:   stdout,
		stderr:   stderr,
		config:   config,
		hasher:   hasher,
		format:   format,
		workers:  workers,
		shutdown: shutdown,
	}, nil
}

// cmdHash hashes each file and prints "<value>  <path>"
func (a *app) cmdHash(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(a.stderr, "hashval: hash requires at least one file\n")
		return 2
	}

	exitCode := 0
	for _, r := range a.hasher.HashFiles(args, a.workers, a.shutdown) {
		if r.Error != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", r.Error)
			exitCode = 1
			if errors.Is(r.Error, hashval.ErrInterrupted) {
				return 130
			}
			continue
		}
		text, err := hashval.FormatValue(r.Hash, a.format)
		if err != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", err)
			return 1
		}
		fmt.Fprintf(a.stdout, "%s  %s\n", text, r.Path)
	}
	return exitCode
}

// cmdString hashes each argument as literal text
func (a *app) cmdString(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(a.stderr, "hashval: string requires at least one argument\n")
		return 2
	}

	for _, s := range args {
		h, err := a.hasher.HashBuffer([]byte(s))
		if err != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", err)
			return 1
		}
		text, err := hashval.FormatValue(h, a.format)
		if err != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", err)
			return 1
		}
		fmt.Fprintf(a.stdout, "%s  %q\n", text, s)
	}
	return 0
}

// cmdConvert re-encodes a value: convert FROM TO VALUE
func (a *app) cmdConvert(args []string) int {
	if len(args) != 3 {
		fmt.Fprintf(a.stderr, "hashval: convert requires FROM TO VALUE\n")
		return 2
	}

	h, err := hashval.ParseValue(args[2], args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "hashval: cannot read %s value: %v\n", args[0], err)
		return 1
	}
	text, err := hashval.FormatValue(h, args[1])
	if err != nil {
		fmt.Fprintf(a.stderr, "hashval: %v\n", err)
		return 1
	}
	fmt.Fprintln(a.stdout, text)
	return 0
}

// cmdManifest hashes files into a manifest: manifest OUT FILE...
// OUT may be "-" for standard output.
func (a *app) cmdManifest(args []string) int {
	if len(args) < 2 {
		fmt.Fprintf(a.stderr, "hashval: manifest requires OUT and at least one file\n")
		return 2
	}
	out, files := args[0], args[1:]

	manifest := hashval.NewManifest()
	exitCode := 0
	for _, r := range a.hasher.HashFiles(files, a.workers, a.shutdown) {
		if r.Error != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", r.Error)
			if errors.Is(r.Error, hashval.ErrInterrupted) {
				return 130
			}
			exitCode = 1
			continue
		}
		if err := manifest.Add(r.Path, r.Hash, hashval.ComputedContext); err != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", err)
			exitCode = 1
		}
	}

	if out == "-" {
		if _, err := manifest.WriteTo(a.stdout); err != nil {
			fmt.Fprintf(a.stderr, "hashval: %v\n", err)
			return 1
		}
		return exitCode
	}
	if err := manifest.WriteFile(out); err != nil {
		fmt.Fprintf(a.stderr, "hashval: %v\n", err)
		return 1
	}
	return exitCode
}

// cmdCheck verifies a manifest against the files on disk
func (a *app) cmdCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(a.stderr, "hashval: check requires exactly one manifest\n")
		return 2
	}

	manifest, err := hashval.LoadManifest(args[0])
	if err != nil {
		fmt.Fprintf(a.stderr, "hashval: %v\n", err)
		return 1
	}

	failed := 0
	for _, r := range manifest.Verify(a.hasher, a.workers, a.shutdown) {
		fmt.Fprintf(a.stdout, "%s: %s\n", r.Path, r.Status)
		if r.Status != hashval.VerifyOK {
			failed++
			if r.Error != nil {
				hashval.VerboseLog(1, "%s: %v", r.Path, r.Error)
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(a.stderr, "hashval: WARNING: %d of %d entries did not match\n", failed, manifest.Len())
		return 1
	}
	return 0
}

func showUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: hashval [options] <command> [args]\n")
	fmt.Fprintf(w, "Try 'hashval --help' for more information.\n")
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "hashval - 128-bit content hash values\n\n")
	fmt.Fprintf(w, "Usage: hashval [options] <command> [args]\n\n")

	fmt.Fprintf(w, "COMMANDS:\n")
	fmt.Fprintf(w, "  hash FILE...             Hash files, print '<value>  <path>'\n")
	fmt.Fprintf(w, "  string TEXT...           Hash each argument as text\n")
	fmt.Fprintf(w, "  convert FROM TO VALUE    Re-encode a value (hex, dec, bin, multihash)\n")
	fmt.Fprintf(w, "  manifest OUT FILE...     Write an md5sum-format manifest ('-' for stdout)\n")
	fmt.Fprintf(w, "  check MANIFEST           Verify files against a manifest\n\n")

	fmt.Fprintf(w, "OPTIONS:\n")
	options.WriteUsage(w)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "FORMATS:\n")
	fmt.Fprintf(w, "  hex        32 hex digits, big-endian words (same as md5sum)\n")
	fmt.Fprintf(w, "  dec        four decimal words separated by spaces\n")
	fmt.Fprintf(w, "  bin        hex of the 16-byte message form (little-endian words)\n")
	fmt.Fprintf(w, "  multihash  hex of the md5 multihash\n\n")

	fmt.Fprintf(w, "EXAMPLES:\n")
	fmt.Fprintf(w, "  hashval hash *.go\n")
	fmt.Fprintf(w, "  hashval -f dec string abc\n")
	fmt.Fprintf(w, "  hashval convert hex dec 900150983cd24fb0d6963f7d28e17f72\n")
	fmt.Fprintf(w, "  hashval -o hash_workers:8 manifest MD5SUMS src/*\n")
	fmt.Fprintf(w, "  hashval check MD5SUMS\n")
}
