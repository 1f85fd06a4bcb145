// Command edgelex tokenizes Edge templates and prints their token trees.
//
// Usage:
//
//	edgelex [flags] <template>...
//
// Templates are read from the given paths and tokenized concurrently.
// The first malformed template is reported with an excerpt of its source
// and makes edgelex exit with status 1.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/edgelexer/edgelexer"
	"github.com/edgelexer/edgelexer/lexer"
	"github.com/edgelexer/edgelexer/registry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// fileList collects a repeatable flag.
type fileList []string

func (l *fileList) String() string {
	return strings.Join(*l, ",")
}

func (l *fileList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type output struct {
	Template string       `json:"template" yaml:"template"`
	Tokens   []lexer.Node `json:"tokens" yaml:"tokens"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("edgelex", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var tagFiles fileList
	fs.Var(&tagFiles, "tags", "load tag definitions from a .cue, .json or .yaml file (repeatable)")
	noDefaults := fs.Bool("no-default-tags", false, "do not register the built-in Edge tags")
	format := fs.String("format", "tree", "output format: tree, json or yaml")
	dumpTags := fs.Bool("dump-tags", false, "print the tag registry as YAML and exit")
	jobs := fs.Int("j", 0, "number of templates tokenized at once (default GOMAXPROCS)")
	verbose := fs.Bool("v", false, "enable debug logging")
	logFile := fs.String("log-file", "", "also write JSON logs to this file")
	journal := fs.Bool("journal", false, "also send logs to the systemd journal")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: edgelex [flags] <template>...\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	switch *format {
	case "tree", "json", "yaml":
	default:
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}
	if fs.NArg() < 1 && !*dumpTags {
		fs.Usage()
		return 2
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	logger, closeLog, err := newLogger(stderr, logOptions{
		level:   level,
		file:    *logFile,
		journal: *journal,
	})
	if err != nil {
		fmt.Fprintf(stderr, "edgelex: %v\n", err)
		return 1
	}
	defer func() {
		_ = closeLog()
	}()

	env := edgelexer.NewEnvironment()
	if *noDefaults {
		env = edgelexer.EmptyEnvironment()
	}
	env.SetLogger(logger)
	env.SetConcurrency(*jobs)
	env.SetLoader(func(name string) (string, error) {
		content, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		return string(content), nil
	})

	if len(tagFiles) > 0 {
		tags, err := registry.Load(tagFiles...)
		if err != nil {
			fmt.Fprintf(stderr, "edgelex: %v\n", err)
			return 1
		}
		logger.Debug("loaded tag registry", "files", len(tagFiles), "tags", len(tags))
		env.AddTags(tags)
	}

	if *dumpTags {
		if err := registry.WriteYAML(stdout, env.Tags()); err != nil {
			fmt.Fprintf(stderr, "edgelex: %v\n", err)
			return 1
		}
		return 0
	}

	templates, err := env.TokenizeAll(ctx, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%+v\n", err)
		return 1
	}

	if err := write(stdout, *format, templates); err != nil {
		fmt.Fprintf(stderr, "edgelex: %v\n", err)
		return 1
	}
	return 0
}

func write(w io.Writer, format string, templates []*edgelexer.Template) error {
	switch format {
	case "json", "yaml":
		outputs := make([]output, 0, len(templates))
		for _, tmpl := range templates {
			outputs = append(outputs, output{
				Template: tmpl.Name(),
				Tokens:   tmpl.Nodes(),
			})
		}
		if format == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(outputs); err != nil {
			return err
		}
		return enc.Close()

	default:
		for i, tmpl := range templates {
			if len(templates) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "==> %s <==\n", tmpl.Name())
			}
			fmt.Fprint(w, tmpl)
		}
		return nil
	}
}
