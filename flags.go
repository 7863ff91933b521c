package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/codeblock/internal/attr"
	"go.abhg.dev/codeblock/internal/cache"
	"go.abhg.dev/codeblock/internal/flagvalue"
	"go.abhg.dev/codeblock/internal/highlight"
	"go.abhg.dev/codeblock/internal/theme"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envPrefix prefixes environment variables that set flags.
const _envPrefix = "CODEBLOCK"

// params holds all arguments for codeblock.
type params struct {
	version bool
	help    Help

	// Block attributes:
	Language       string
	HighlightLines string
	LineNumbers    bool
	WrapLines      bool
	Attrs          flagvalue.JSONObject
	AutoDetect     []language

	// Presentation:
	Theme      string
	LineColor  string
	Feed       bool
	CSS        flagvalue.FileSwitch
	ThemeColor string
	ListThemes bool

	// Caching:
	Cache    string
	CacheTTL time.Duration
	NoCache  bool

	// Program-level:
	Out    string
	Config string
	Debug  flagvalue.FileSwitch

	// Attributes are the raw block attributes:
	// -attrs with explicitly passed attribute flags applied on top.
	Attributes map[string]any

	Files []string
}

// AutoDetectLanguages returns the languages passed to -auto-detect.
func (p *params) AutoDetectLanguages() []string {
	if len(p.AutoDetect) == 0 {
		return nil
	}
	langs := make([]string, len(p.AutoDetect))
	for i, l := range p.AutoDetect {
		langs[i] = string(l)
	}
	return langs
}

// hasAction reports whether an option that produces output
// without rendering blocks was passed.
func (p *params) hasAction() bool {
	return p.CSS.Bool() || p.ThemeColor != "" || p.ListThemes
}

// cliParser parses the command line arguments for codeblock.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

// _attributeFlags maps flags that set block attributes
// to the attribute they set.
var _attributeFlags = map[string]string{
	"lang":            attr.Language,
	"highlight-lines": attr.HighlightedLines,
	"line-numbers":    attr.ShowLineNumbers,
	"wrap-lines":      attr.WrapLines,
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("codeblock", flag.ContinueOnError)
	// Parse reports errors itself.
	flag.SetOutput(io.Discard)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Block attributes:
	flag.StringVar(&p.Language, "lang", "", "")
	flag.StringVar(&p.HighlightLines, "highlight-lines", "", "")
	flag.BoolVar(&p.LineNumbers, "line-numbers", false, "")
	flag.BoolVar(&p.WrapLines, "wrap-lines", false, "")
	flag.Var(&p.Attrs, "attrs", "")
	flag.Var(flagvalue.ListOf(&p.AutoDetect), "auto-detect", "")

	// Presentation:
	flag.StringVar(&p.Theme, "theme", highlight.DefaultStyleName, "")
	flag.StringVar(&p.LineColor, "line-color", "", "")
	flag.BoolVar(&p.Feed, "feed", false, "")
	flag.Var(&p.CSS, "css", "")
	flag.StringVar(&p.ThemeColor, "theme-color", "", "")
	flag.BoolVar(&p.ListThemes, "list-themes", false, "")

	// Caching:
	flag.StringVar(&p.Cache, "cache", "memory", "")
	flag.DurationVar(&p.CacheTTL, "cache-ttl", cache.DefaultTTL, "")
	flag.BoolVar(&p.NoCache, "no-cache", false, "")

	// Program-level:
	flag.StringVar(&p.Out, "out", "", "")
	flag.StringVar(&p.Config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	err := ff.Parse(fset, args,
		ff.WithEnvVarPrefix(_envPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errtrace.Wrap(err)
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "codeblock", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil && h.Write(io.Discard) == nil {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	if err := theme.ValidateTheme(theme.ChromaProvider{}, p.Theme); err != nil {
		fmt.Fprintf(cmd.Stderr, "-theme: %v\n", err)
		return nil, errInvalidArguments
	}

	p.Attributes = make(map[string]any)
	maps.Copy(p.Attributes, p.Attrs)
	fset.Visit(func(f *flag.Flag) {
		if name, ok := _attributeFlags[f.Name]; ok {
			p.Attributes[name] = f.Value.(flag.Getter).Get()
		}
	})

	p.Files = args
	if len(p.Files) == 0 && !p.hasAction() {
		p.Files = []string{"-"}
	}

	return p, nil
}

// language is a language name passed on the command line.
// It must be known to the highlighter.
type language string

var _ flag.Getter = (*language)(nil)

func (l *language) Get() any { return string(*l) }

func (l *language) String() string { return string(*l) }

func (l *language) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if highlight.Lexer(s) == nil {
		return errtrace.Errorf("unknown language %q", s)
	}
	*l = language(highlight.CanonicalLanguage(s))
	return nil
}
