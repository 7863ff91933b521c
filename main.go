// codeblock renders stored code blocks into syntax highlighted HTML.
//
// See -help for usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/cache"
	"go.abhg.dev/codeblock/internal/errdefer"
	"go.abhg.dev/codeblock/internal/flagvalue"
	"go.abhg.dev/codeblock/internal/highlight"
	"go.abhg.dev/codeblock/internal/render"
	"go.abhg.dev/codeblock/internal/theme"
	"go.uber.org/zap"
)

func main() {
	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(context.Background(), opts); err != nil {
		fmt.Fprintf(cmd.Stderr, "codeblock: %v\n", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("-debug: %w", err))
	}
	defer errdefer.Invoke(&err, closeDebug)

	log := newLogger(cmd.Stderr, debugw)
	defer func() {
		_ = log.Sync()
	}()

	// The theme was validated while parsing flags.
	style, _ := highlight.Style(opts.Theme)
	hl := &highlight.Highlighter{Style: style}
	provider := theme.ChromaProvider{}

	if opts.ListThemes {
		for _, name := range provider.AvailableThemes() {
			fmt.Fprintln(cmd.Stdout, name)
		}
	}

	if opts.ThemeColor != "" {
		if err := theme.ValidateTheme(provider, opts.ThemeColor); err != nil {
			return errtrace.Wrap(fmt.Errorf("-theme-color: %w", err))
		}
		fmt.Fprintln(cmd.Stdout, theme.DefaultLineColor(provider, opts.ThemeColor))
	}

	if opts.CSS.Bool() {
		themeOpts := theme.Options{
			ThemeName:            opts.Theme,
			HighlightedLineColor: opts.LineColor,
		}
		if err := cmd.writeCSS(&opts.CSS, hl, themeOpts.LineColor(provider)); err != nil {
			return errtrace.Wrap(fmt.Errorf("-css: %w", err))
		}
	}

	if len(opts.Files) == 0 {
		return nil
	}

	var store cache.Store
	if opts.NoCache {
		log.Debug("Caching disabled")
	} else {
		var closeCache func() error
		store, closeCache, err = openCache(ctx, opts.Cache, opts.CacheTTL, log)
		if err != nil {
			return errtrace.Wrap(err)
		}
		defer errdefer.Invoke(&err, closeCache)
	}

	out := cmd.Stdout
	if len(opts.Out) > 0 {
		var f *os.File
		f, err = os.Create(opts.Out)
		if err != nil {
			return errtrace.Wrap(err)
		}
		defer errdefer.Close(&err, f)
		out = f
	}

	renderer := render.Renderer{
		Highlighter:         hl,
		Cache:               store,
		CacheTTL:            opts.CacheTTL,
		AutoDetectLanguages: opts.AutoDetectLanguages(),
		Feed:                opts.Feed,
		Log:                 log,
	}

	var failed int
	for _, name := range opts.Files {
		content, err := cmd.readInput(name)
		if err != nil {
			return errtrace.Wrap(err)
		}

		res := renderer.RenderResult(ctx, content, opts.Attributes)
		if !res.OK() {
			failed++
		}

		html := res.String()
		if !strings.HasSuffix(html, "\n") {
			html += "\n"
		}
		if _, err := io.WriteString(out, html); err != nil {
			return errtrace.Wrap(err)
		}
	}

	log.Debug("Rendered code blocks",
		zap.Int("total", len(opts.Files)),
		zap.Int("failed", failed))
	return nil
}

func (cmd *mainCmd) readInput(name string) (string, error) {
	if name == "-" {
		bs, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return "", errtrace.Wrap(fmt.Errorf("read stdin: %w", err))
		}
		return string(bs), nil
	}

	bs, err := os.ReadFile(name)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return string(bs), nil
}

// writeCSS writes the complete stylesheet for rendered blocks:
// token colors for the theme followed by the layout rules.
func (cmd *mainCmd) writeCSS(dst *flagvalue.FileSwitch, hl *highlight.Highlighter, lineColor string) (err error) {
	w, closeCSS, err := dst.Create(cmd.Stdout)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Invoke(&err, closeCSS)

	if err := hl.WriteCSS(w); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(theme.WriteStylesheet(w, lineColor))
}
