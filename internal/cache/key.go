package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/attr"
)

// KeyPrefix starts every cache key.
const KeyPrefix = "shcb-"

// KeyInput is everything that influences the rendered output of a block.
type KeyInput struct {
	// Content is the block's inner markup as stored,
	// before <br> tags and entities are decoded.
	Content string

	// Attributes are the block's normalized attributes.
	Attributes attr.Attributes

	// AutoDetectLanguages restricts language detection.
	AutoDetectLanguages []string

	// Version identifies the rendering pipeline.
	Version string
}

// keyTuple is the serialized form of KeyInput.
// Field order is fixed so that keys are stable across releases.
type keyTuple struct {
	Content             string          `json:"content"`
	Attributes          attr.Attributes `json:"attributes"`
	AutoDetectLanguages []string        `json:"auto_detect_languages"`
	Version             string          `json:"version"`
}

// Key returns the cache key for the given input.
//
// Equal inputs always produce equal keys.
// A nil and an empty AutoDetectLanguages produce the same key.
func Key(in KeyInput) (string, error) {
	langs := in.AutoDetectLanguages
	if langs == nil {
		langs = []string{}
	}

	data, err := json.Marshal(keyTuple{
		Content:             in.Content,
		Attributes:          in.Attributes,
		AutoDetectLanguages: langs,
		Version:             in.Version,
	})
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	sum := md5.Sum(data)
	return KeyPrefix + hex.EncodeToString(sum[:]), nil
}
