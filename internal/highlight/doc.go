// Package highlight provides support to highlight source code blocks.
// It uses the Chroma library to do this work.
//
// Code is highlighted either in a known language
// or in a language detected from the code itself.
// Either way, the output is HTML with CSS classes
// and no surrounding <pre> element;
// [Highlighter.WriteCSS] provides the matching stylesheet.
package highlight
