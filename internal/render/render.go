// Package render turns stored code blocks into syntax highlighted HTML.
//
// A [Renderer] takes the saved markup of a code block,
// a <pre><code>...</code></pre> wrapper, along with its attributes,
// and returns the same wrapper with highlighted contents
// and presentation classes added.
//
// Rendering never fails outright.
// Content that isn't shaped like a code block is returned unchanged,
// and failures while highlighting produce the original content
// followed by an HTML comment describing the failure.
package render

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/attr"
	"go.abhg.dev/codeblock/internal/cache"
	"go.abhg.dev/codeblock/internal/highlight"
	"go.abhg.dev/codeblock/internal/langname"
	"go.abhg.dev/codeblock/internal/lines"
	"go.abhg.dev/codeblock/internal/linesplit"
	"go.abhg.dev/codeblock/internal/markup"
	"go.uber.org/zap"
)

// PipelineVersion identifies the output of this package.
// It is part of every cache key,
// so changing it invalidates previously cached blocks.
const PipelineVersion = "1.0.0"

// Highlighter highlights source code into HTML.
type Highlighter interface {
	// Highlight highlights code written in the given language.
	Highlight(language, code string) (*highlight.Result, error)

	// HighlightAuto detects the language of code and highlights it.
	// If candidates is non-empty, only those languages are considered.
	HighlightAuto(code string, candidates []string) (*highlight.Result, error)
}

var _ Highlighter = (*highlight.Highlighter)(nil)

// Renderer renders code blocks.
//
// A Renderer is safe for concurrent use once configured.
type Renderer struct {
	// Highlighter highlights code.
	// Defaults to a Chroma-based highlighter.
	Highlighter Highlighter

	// Cache stores rendered blocks between calls.
	// If nil, nothing is cached.
	Cache cache.Store

	// CacheTTL is how long cached blocks live.
	// Defaults to cache.DefaultTTL.
	CacheTTL time.Duration

	// AutoDetectLanguages restricts language detection
	// for blocks without a language.
	AutoDetectLanguages []string

	// Version is mixed into cache keys.
	// Defaults to PipelineVersion.
	Version string

	// Feed omits language labels,
	// for output that will be syndicated rather than shown on the site.
	Feed bool

	// LanguageName maps language slugs to display names.
	// Defaults to langname.Name.
	LanguageName func(slug string) string

	// SplitLines splits highlighted HTML into lines.
	// Defaults to linesplit.Split.
	SplitLines lines.Splitter

	// Log receives debug and warning messages.
	// Defaults to a no-op logger.
	Log *zap.Logger

	lastID atomic.Int64
}

var _defaultHighlighter highlight.Highlighter

func (r *Renderer) highlighter() Highlighter {
	if r.Highlighter != nil {
		return r.Highlighter
	}
	return &_defaultHighlighter
}

func (r *Renderer) log() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop()
}

func (r *Renderer) version() string {
	if r.Version != "" {
		return r.Version
	}
	return PipelineVersion
}

func (r *Renderer) ttl() time.Duration {
	if r.CacheTTL > 0 {
		return r.CacheTTL
	}
	return cache.DefaultTTL
}

func (r *Renderer) splitLines() lines.Splitter {
	if r.SplitLines != nil {
		return r.SplitLines
	}
	return linesplit.Split
}

func (r *Renderer) languageName(slug string) string {
	if r.LanguageName != nil {
		return r.LanguageName(slug)
	}
	return langname.Name(slug)
}

// Render renders a code block with the given raw attributes.
// It always returns HTML suitable for the page.
func (r *Renderer) Render(ctx context.Context, content string, attrs map[string]any) string {
	return r.RenderResult(ctx, content, attrs).String()
}

// RenderResult renders a code block with the given raw attributes.
//
// Attributes are normalized with attr.FromMap, so legacy names are honored.
// Content that is not a <pre><code> wrapper is returned unchanged
// as a successful Result.
func (r *Renderer) RenderResult(ctx context.Context, content string, attrs map[string]any) Result {
	block, ok := markup.Extract(content)
	if !ok {
		return Ok(content)
	}

	a := attr.FromMap(attrs)
	log := r.log()

	var key string
	if r.Cache != nil {
		var err error
		key, err = cache.Key(cache.KeyInput{
			Content:             block.Content,
			Attributes:          a,
			AutoDetectLanguages: r.AutoDetectLanguages,
			Version:             r.version(),
		})
		if err != nil {
			log.Warn("Could not build cache key", zap.Error(err))
			key = ""
		}
	}

	if key != "" {
		if e, ok := cache.Lookup(ctx, r.Cache, key); ok {
			log.Debug("Cache hit", zap.String("key", key))
			return Ok(r.inject(block, e.Attributes, e.Content))
		}
		log.Debug("Cache miss", zap.String("key", key))
	}

	body, used, err := r.highlight(block.Content, a)
	if err != nil {
		log.Warn("Could not highlight code block",
			zap.String("language", a.Language),
			zap.Error(err))
		return Err(content, err)
	}

	if key != "" {
		entry := cache.Entry{Content: body, Attributes: used}
		if err := cache.Save(ctx, r.Cache, key, &entry, r.ttl()); err != nil {
			log.Warn("Could not cache code block", zap.String("key", key), zap.Error(err))
		}
	}

	return Ok(r.inject(block, used, body))
}

// highlight highlights the contents of a block
// and splits it into lines if requested.
// It returns the attributes updated with the language that was used.
//
// Panics are recovered and reported as a *PanicError.
func (r *Renderer) highlight(content string, a attr.Attributes) (body string, _ attr.Attributes, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errtrace.Wrap(&PanicError{Value: v})
		}
	}()

	code := markup.Decode(content)
	a.Language = highlight.CanonicalLanguage(a.Language)

	h := r.highlighter()
	var res *highlight.Result
	if a.Language != "" {
		res, err = h.Highlight(a.Language, code)
	} else {
		res, err = h.HighlightAuto(code, r.AutoDetectLanguages)
	}
	if err != nil {
		return "", a, errtrace.Wrap(err)
	}
	a.Language = res.Language

	body, err = lines.Process(res.HTML, a, r.splitLines())
	if err != nil {
		return "", a, errtrace.Wrap(fmt.Errorf("split lines: %w", err))
	}
	return body, a, nil
}

func (r *Renderer) inject(block *markup.Block, a attr.Attributes, body string) string {
	var label *markup.Label
	if !r.Feed && a.Language != "" {
		label = &markup.Label{
			ID:   fmt.Sprintf("shcb-language-%d", r.lastID.Add(1)),
			Name: r.languageName(a.Language),
		}
	}
	return markup.Inject(block, a, markup.Escape(body), label)
}
