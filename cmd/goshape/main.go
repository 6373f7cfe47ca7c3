package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	gen "github.com/reoring/goshape/internal/gen"
	"github.com/reoring/goshape/internal/scan"
)

const defaultOutput = "goshape_gen.go"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "gen":
		genCmd(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `goshape CLI

Usage:
  goshape gen -type T1[,T2,...] [-dir .] [-o goshape_gen.go] [-config goshape.yaml]
              [-emit-ir] [-check] [-watch] [-v]

Directives (in the doc comment of a type):
  //goshape:indexed          fields are addressed by position
  //goshape:sealed           runtime construction is refused
  //goshape:unit             empty struct registered as a unit type
  //goshape:union A,B,...    interface is a tagged union over the listed structs

Notes:
  - Field keys come from goshape:"name=..." tags, then json tags, then field names.
  - An unexported niladic method on a union interface is generated for every variant.`)
}

// config mirrors the gen flags; flags given on the command line win.
type config struct {
	Dir    string   `yaml:"dir"`
	Output string   `yaml:"output"`
	Types  []string `yaml:"types"`
	EmitIR bool     `yaml:"emitIR"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func genCmd(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var typesCSV, dir, out, cfgPath string
	var emitIR, check, watch, verbose bool
	fs.StringVar(&typesCSV, "type", "", "comma-separated type names to generate for")
	fs.StringVar(&dir, "dir", "", "package directory (default \".\")")
	fs.StringVar(&out, "o", "", "output filename (default <dir>/"+defaultOutput+")")
	fs.StringVar(&cfgPath, "config", "", "optional YAML file with dir, output and types")
	fs.BoolVar(&emitIR, "emit-ir", false, "dump parsed declarations as JSON to stderr")
	fs.BoolVar(&check, "check", false, "do not write; print a diff and exit 1 when the output is stale")
	fs.BoolVar(&watch, "watch", false, "regenerate whenever a source file in the package changes")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)

	logf := func(format string, a ...any) {
		if verbose {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	var cfg config
	if cfgPath != "" {
		c, err := loadConfig(cfgPath)
		if err != nil {
			fatalf("reading config: %v", err)
		}
		cfg = c
		logf("config: %s dir=%q output=%q types=%v", cfgPath, cfg.Dir, cfg.Output, cfg.Types)
	}
	if typesCSV != "" {
		cfg.Types = splitCSV(typesCSV)
	}
	if dir != "" {
		cfg.Dir = dir
	}
	if out != "" {
		cfg.Output = out
	}
	cfg.EmitIR = cfg.EmitIR || emitIR
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Output == "" {
		cfg.Output = filepath.Join(cfg.Dir, defaultOutput)
	}
	if len(cfg.Types) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	switch {
	case check:
		have, err := os.ReadFile(cfg.Output)
		if err != nil && !os.IsNotExist(err) {
			fatalf("reading output: %v", err)
		}
		want, err := render(cfg, logf)
		if err != nil {
			fatalf("%v", err)
		}
		if d := gen.Diff(have, want); d != "" {
			fmt.Fprint(os.Stdout, colorDiff(d))
			fatalf("%s is stale", cfg.Output)
		}
		logf("%s is up to date", cfg.Output)
	case watch:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watchDir(ctx, cfg, logf); err != nil {
			fatalf("watch: %v", err)
		}
	default:
		if err := generate(cfg, logf); err != nil {
			fatalf("%v", err)
		}
	}
}

// render scans the package and returns the formatted output.
func render(cfg config, logf func(string, ...any)) ([]byte, error) {
	file, err := scan.Dir(cfg.Dir, cfg.Types)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.Dir, err)
	}
	logf("scanned package %s: %d declarations, %d imports", file.Package, len(file.Decls), len(file.Imports))
	if cfg.EmitIR {
		b, err := json.MarshalIndent(file, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding IR: %w", err)
		}
		fmt.Fprintln(os.Stderr, string(b))
	}
	code, err := gen.Render(file)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return code, nil
}

func generate(cfg config, logf func(string, ...any)) error {
	code, err := render(cfg, logf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(cfg.Output, code, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logf("wrote generated file: %s", cfg.Output)
	return nil
}

// colorDiff highlights a line diff when stdout is a terminal.
func colorDiff(d string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return d
	}
	add, del := color.New(color.FgGreen), color.New(color.FgRed)
	var sb strings.Builder
	for _, line := range strings.SplitAfter(d, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			sb.WriteString(add.Sprint(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(del.Sprint(line))
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	prefix := "goshape:"
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		prefix = color.New(color.FgRed, color.Bold).Sprint(prefix)
	}
	fmt.Fprintf(os.Stderr, prefix+" "+format+"\n", a...)
	os.Exit(1)
}
