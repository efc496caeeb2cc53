// Package main is the entry point for dmview, a read-only file viewer that
// exercises the display-mapping engine: soft wrap, folding, live reload.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/displaymap/config"
	"github.com/dshills/displaymap/internal/watch"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.wrapWidth != nil {
		cfg.WrapWidth = *opts.wrapWidth
	}
	if opts.tabWidth != nil {
		cfg.TabWidth = *opts.tabWidth
	}

	lines, err := readLines(opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", opts.path, err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	watcher, err := watch.New(100 * time.Millisecond)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create watcher: %v\n", err)
		return 1
	}
	defer watcher.Close()
	if err := watcher.Watch(opts.path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", opts.path, err)
		return 1
	}

	v := newViewer(screen, cfg, opts.path, lines)
	v.run(watcher)
	return 0
}

type options struct {
	configPath string
	path       string
	wrapWidth  *int
	tabWidth   *int
}

func parseFlags() options {
	var opts options
	var wrapWidth, tabWidth int
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&wrapWidth, "wrap", -2, "Wrap width in cells (0 = off, -1 = screen width)")
	flag.IntVar(&tabWidth, "tab", 0, "Tab width in cells")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dmview - soft-wrap and fold viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dmview [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows/PgUp/PgDn  move cursor\n")
		fmt.Fprintf(os.Stderr, "  z                 toggle fold at cursor line\n")
		fmt.Fprintf(os.Stderr, "  Z                 clear all folds\n")
		fmt.Fprintf(os.Stderr, "  w                 toggle soft wrap\n")
		fmt.Fprintf(os.Stderr, "  q / Esc           quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("dmview %s\n", version)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	opts.path = flag.Arg(0)
	if wrapWidth != -2 {
		opts.wrapWidth = &wrapWidth
	}
	if tabWidth != 0 {
		opts.tabWidth = &tabWidth
	}
	return opts
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// splitLines splits file content into logical lines, tolerating CRLF and a
// trailing newline.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		end := i
		if end > start && s[end-1] == '\r' {
			end--
		}
		lines = append(lines, s[start:end])
		start = i + 1
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
