package highlight

import (
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gosimple/slug"
)

// _languageAliases maps language names used by other highlighters
// (chiefly Prism.js) to the closest language Chroma knows.
var _languageAliases = map[string]string{
	"clike":  "cpp",
	"git":    "diff", // best match
	"markup": "xml",
}

// CanonicalLanguage maps alternate language names
// onto names understood by the highlighter.
// Other names are returned unchanged.
func CanonicalLanguage(lang string) string {
	if to, ok := _languageAliases[lang]; ok {
		return to
	}
	return lang
}

// Lexer returns the Chroma lexer for the given language name or alias,
// or nil if there isn't one.
func Lexer(lang string) chroma.Lexer {
	lang = strings.TrimSpace(lang)
	if len(lang) == 0 {
		return nil
	}
	return lexers.Get(CanonicalLanguage(lang))
}

// Slug returns a short, stable identifier for the lexer's language.
// This is the lexer's primary alias if it has one.
func Slug(l chroma.Lexer) string {
	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return slug.Make(cfg.Name)
}

// detectAmong picks the lexer among candidates
// that best matches code, or nil if none of them do.
//
// Chroma's own analysers only recognize a handful of telltale signs
// (shebangs, XML declarations, etc.)
// so candidates are also scored by how much of the code
// they recognize as meaningful tokens.
func detectAmong(code string, candidates []string) chroma.Lexer {
	var (
		best      chroma.Lexer
		bestScore float32
	)
	for _, name := range candidates {
		l := Lexer(name)
		if l == nil {
			continue
		}

		var score float32
		if a, ok := l.(chroma.Analyser); ok {
			score = a.AnalyseText(code)
		}
		score += relevance(l, code) / 2

		if score > bestScore {
			best, bestScore = l, score
		}
	}
	return best
}

// relevance reports the fraction of tokens in code that the lexer
// assigns a meaningful type, penalizing tokens it fails to lex.
func relevance(l chroma.Lexer, code string) float32 {
	tokens, err := chroma.Tokenise(chroma.Coalesce(l), nil, code)
	if err != nil || len(tokens) == 0 {
		return 0
	}

	var meaningful, errs int
	for _, t := range tokens {
		switch {
		case t.Type == chroma.Error:
			errs++
		case t.Type.InCategory(chroma.Text), t.Type == chroma.Other:
			// not informative
		default:
			meaningful++
		}
	}

	score := float32(meaningful-10*errs) / float32(len(tokens))
	if score < 0 {
		return 0
	}
	return score
}
