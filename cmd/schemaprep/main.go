package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"

	"github.com/reoring/schemaprep"
	"github.com/reoring/schemaprep/internal/config"
	"github.com/reoring/schemaprep/internal/log"
	"github.com/reoring/schemaprep/prompt"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	var err error
	switch args[0] {
	case "bundle":
		err = bundleCmd(args[1:], stdout, stderr)
	case "required":
		err = requiredCmd(args[1:], stdout, stderr)
	case "constraints":
		err = constraintsCmd(args[1:], stdout, stderr)
	case "minify":
		err = minifyCmd(args[1:], stdout, stderr)
	case "prompt":
		err = promptCmd(args[1:], stdout, stderr)
	case "save":
		err = saveCmd(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		color.New(color.FgRed).Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, `schemaprep

Usage:
  schemaprep bundle      -schema FILE|GLOB [-o out.json]
  schemaprep required    -schema FILE
  schemaprep constraints -schema FILE
  schemaprep minify      -schema FILE
  schemaprep prompt      -schema FILE -text FILE [-o prompt.txt]
  schemaprep save        -o out.json [-in raw.txt]

Common flags:
  -config FILE   YAML settings (max_depth, max_ref_depth, max_ref_nodes, max_bytes,
                 duplicate_keys, log_level, output_dir)
  -v             debug logging

Schema files ending in .yaml or .yml are read as YAML. Settings can also
come from SCHEMAPREP_* environment variables or a .env file.`)
}

// common carries the flags shared by every subcommand.
type common struct {
	config  string
	verbose bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML settings file")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
}

func (c *common) setup(stderr io.Writer) (config.Config, log.Logger, error) {
	cfg, err := config.Load(c.config, ".env")
	if err != nil {
		return config.Config{}, nil, err
	}
	level := log.LevelFromString(cfg.LogLevel)
	if c.verbose {
		level = log.LevelDebug
	}
	if f, ok := stderr.(*os.File); ok && f == os.Stderr {
		return cfg, log.New(level), nil
	}
	return cfg, log.NewWriter(stderr, level, true), nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func requireFlag(fs *flag.FlagSet, name, value string) error {
	if value == "" {
		fmt.Fprintf(fs.Output(), "%s: -%s is required\n", fs.Name(), name)
		fs.Usage()
		return errUsage
	}
	return nil
}

// loadBundle processes a single schema file.
func loadBundle(path string, cfg config.Config, logger log.Logger) (*schemaprep.Bundle, error) {
	logger = logger.With("schema", path)
	logger.Debug("processing schema")
	opts := cfg.Options(func(p, msg string) { logger.Warn(msg, "path", p) })
	b, err := schemaprep.ProcessFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("schema processed", "required", len(b.Required()), "constraints", b.Constraints().Len())
	return b, nil
}

// expandSchemas expands a doublestar pattern; a plain path is returned as is.
func expandSchemas(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no schema files match %q", pattern)
	}
	return matches, nil
}

func bundleCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("bundle", stderr)
	var c common
	var schema, out string
	c.register(fs)
	fs.StringVar(&schema, "schema", "", "schema file or ** glob")
	fs.StringVar(&out, "o", "", "output file (single schema) or directory (glob)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "schema", schema); err != nil {
		return err
	}
	cfg, logger, err := c.setup(stderr)
	if err != nil {
		return err
	}
	paths, err := expandSchemas(schema)
	if err != nil {
		return err
	}
	if len(paths) == 1 && !strings.ContainsAny(schema, "*?[{") {
		b, err := loadBundle(paths[0], cfg, logger)
		if err != nil {
			return err
		}
		return writeValue(b.Value(), out, stdout)
	}

	dir := out
	if dir == "" {
		dir = cfg.OutputDir
	}
	if dir == "" {
		return fmt.Errorf("bundle: -o directory (or output_dir) is required with a glob")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	ok := color.New(color.FgGreen)
	for _, p := range paths {
		b, err := loadBundle(p, cfg, logger)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		dst := filepath.Join(dir, base+".bundle.json")
		if err := writeValue(b.Value(), dst, stdout); err != nil {
			return err
		}
		ok.Fprintf(stdout, "%s -> %s\n", p, dst)
	}
	logger.Info("bundles written", "count", len(paths), "dir", dir)
	return nil
}

func requiredCmd(args []string, stdout, stderr io.Writer) error {
	b, err := singleSchema("required", args, stderr)
	if err != nil {
		return err
	}
	for _, p := range b.Required() {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

func constraintsCmd(args []string, stdout, stderr io.Writer) error {
	b, err := singleSchema("constraints", args, stderr)
	if err != nil {
		return err
	}
	return writeValue(b.Constraints().Value(), "", stdout)
}

func minifyCmd(args []string, stdout, stderr io.Writer) error {
	b, err := singleSchema("minify", args, stderr)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, b.Minified())
	return nil
}

func singleSchema(name string, args []string, stderr io.Writer) (*schemaprep.Bundle, error) {
	fs := newFlagSet(name, stderr)
	var c common
	var schema string
	c.register(fs)
	fs.StringVar(&schema, "schema", "", "schema file")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if err := requireFlag(fs, "schema", schema); err != nil {
		return nil, err
	}
	cfg, logger, err := c.setup(stderr)
	if err != nil {
		return nil, err
	}
	return loadBundle(schema, cfg, logger)
}

func promptCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("prompt", stderr)
	var c common
	var schema, text, out string
	c.register(fs)
	fs.StringVar(&schema, "schema", "", "schema file")
	fs.StringVar(&text, "text", "", "input text file")
	fs.StringVar(&out, "o", "", "output file (default stdout)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "schema", schema); err != nil {
		return err
	}
	if err := requireFlag(fs, "text", text); err != nil {
		return err
	}
	cfg, logger, err := c.setup(stderr)
	if err != nil {
		return err
	}
	b, err := loadBundle(schema, cfg, logger)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(text)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}
	p := prompt.Build(b, schemaprep.CleanText(string(raw)))
	logger.Debug("prompt built", "bytes", len(p))
	if out == "" {
		_, err := fmt.Fprintln(stdout, p)
		return err
	}
	return writeFile(out, []byte(p+"\n"))
}

func saveCmd(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("save", stderr)
	var c common
	var in, out string
	c.register(fs)
	fs.StringVar(&in, "in", "", "raw model output (default stdin)")
	fs.StringVar(&out, "o", "", "output JSON file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireFlag(fs, "o", out); err != nil {
		return err
	}
	_, logger, err := c.setup(stderr)
	if err != nil {
		return err
	}
	var raw []byte
	if in == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(in)
	}
	if err != nil {
		return fmt.Errorf("reading model output: %w", err)
	}
	written, err := schemaprep.SaveModelOutput(raw, out)
	if err != nil {
		if written != "" {
			logger.Error("model output is not valid JSON", "artifact", written)
		}
		return err
	}
	color.New(color.FgGreen).Fprintf(stdout, "saved %s\n", written)
	return nil
}

func writeValue(v schemaprep.Value, path string, stdout io.Writer) error {
	b, err := schemaprep.Indent(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "" {
		_, err := stdout.Write(b)
		return err
	}
	return writeFile(path, b)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
