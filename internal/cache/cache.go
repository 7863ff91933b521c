// Package cache stores rendered code blocks between requests.
//
// Entries are keyed by [Key] and live for a fixed TTL.
// A [Store] is a plain key-value store with expiry;
// this package provides in-process and tiered implementations,
// and subpackages provide Redis and SQLite backed ones.
//
// Reads never fail: anything that prevents reading an entry
// is treated as a cache miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/attr"
)

// DefaultTTL is how long entries live unless configured otherwise.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned by [Store.Get] when a key is absent or expired.
var ErrNotFound = errors.New("cache entry not found")

// Store is a key-value store with per-entry expiry.
type Store interface {
	// Get returns the value stored at key.
	// It returns an error matching ErrNotFound if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key for the given duration.
	// A non-positive ttl means the entry does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Entry is a cached rendering of a code block.
type Entry struct {
	// Content is the processed HTML of the code block body.
	Content string `json:"content"`

	// Attributes are the attributes the block was rendered with,
	// including the language that was actually used.
	Attributes attr.Attributes `json:"attributes"`
}

// Lookup retrieves the entry stored at key.
//
// It reports false if the entry is absent, the store fails,
// or the stored value is not a well-formed entry.
func Lookup(ctx context.Context, s Store, key string) (*Entry, bool) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	e, err := decodeEntry(data)
	if err != nil {
		return nil, false
	}
	return e, true
}

// Save stores an entry at key.
func Save(ctx context.Context, s Store, key string, e *Entry, ttl time.Duration) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(s.Set(ctx, key, data, ttl))
}

// storedAttributes mirrors attr.Attributes
// with every field required.
type storedAttributes struct {
	Language         *string `json:"language"`
	HighlightedLines *string `json:"highlightedLines"`
	ShowLineNumbers  *bool   `json:"showLineNumbers"`
	WrapLines        *bool   `json:"wrapLines"`
}

// decodeEntry decodes an entry, requiring every field to be present
// and of the right type.
func decodeEntry(data []byte) (*Entry, error) {
	var raw struct {
		Content    *string           `json:"content"`
		Attributes *storedAttributes `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if raw.Content == nil {
		return nil, errtrace.New("missing content")
	}

	a := raw.Attributes
	if a == nil {
		return nil, errtrace.New("missing attributes")
	}
	if a.Language == nil || a.HighlightedLines == nil || a.ShowLineNumbers == nil || a.WrapLines == nil {
		return nil, errtrace.New("incomplete attributes")
	}

	return &Entry{
		Content: *raw.Content,
		Attributes: attr.Attributes{
			Language:         *a.Language,
			HighlightedLines: *a.HighlightedLines,
			ShowLineNumbers:  *a.ShowLineNumbers,
			WrapLines:        *a.WrapLines,
		},
	}, nil
}
