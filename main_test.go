package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codeblock/internal/iotest"
	"golang.org/x/net/html"
)

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "codeblock")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
}

func TestMainCmd_stdin(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader("<pre class=\"wp-block-code\"><code>fmt.Println(&quot;hi&quot;)</code></pre>\n"),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-lang", "go", "-highlight-lines", "1"})
	require.Zero(t, exitCode)

	got := stdout.String()
	doc, err := html.Parse(strings.NewReader(got))
	require.NoError(t, err)

	code := cascadia.MustCompile("pre.wp-block-code > code.hljs.language-go.shcb-code-table").MatchFirst(doc)
	require.NotNil(t, code, "got %s", got)
	assert.NotNil(t, cascadia.MustCompile("mark.shcb-loc").MatchFirst(code), "got %s", got)
	assert.NotNil(t, cascadia.MustCompile("small.shcb-language").MatchFirst(doc), "got %s", got)
	assert.Contains(t, got, "&#34;hi&#34;")
}

func TestMainCmd_files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	block := filepath.Join(dir, "block.html")
	other := filepath.Join(dir, "other.html")
	out := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(block, []byte("<pre><code>echo hi</code></pre>"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("<p>not code</p>\n"), 0o644))

	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{
		"-attrs", `{"language": "bash", "showLines": true}`,
		"-feed",
		"-out", out,
		block, other,
	})
	require.Zero(t, exitCode)

	got, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.Len(t, lines, 3, "got %q", got) // wrapped lines end with a newline
	assert.True(t, strings.HasPrefix(lines[0],
		`<pre><code class="hljs language-bash shcb-code-table shcb-line-numbers"><span class="shcb-loc"><span>`),
		"got %q", lines[0])
	assert.NotContains(t, string(got), "shcb-language")
	assert.Equal(t, "<p>not code</p>", lines[2])
}

func TestMainCmd_highlightFailure(t *testing.T) {
	t.Parallel()

	content := "<pre><code>x</code></pre>"
	var stdout, stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(content),
		Stdout: &stdout,
		Stderr: &stderr,
	}).Run([]string{"-attrs", `{"language": "klingon"}`})
	require.Zero(t, exitCode, "failures to highlight must not fail the program")

	assert.Equal(t,
		content+`<!-- *highlight.UnknownLanguageError(0): unknown language "klingon" -->`+"\n",
		stdout.String())
	assert.Contains(t, stderr.String(), "Could not highlight code block")
}

func TestMainCmd_sqliteCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "cache.db")
	block := filepath.Join(dir, "block.html")
	require.NoError(t, os.WriteFile(block, []byte("<pre><code>SELECT 1;</code></pre>"), 0o644))

	run := func() (stdout, debug string) {
		var out bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "debug.log")
		exitCode := (&mainCmd{
			Stdin:  strings.NewReader(""),
			Stdout: &out,
			Stderr: iotest.Writer(t),
		}).Run([]string{
			"-lang", "sql",
			"-cache", "memory,sqlite:" + db,
			"-debug=" + logFile,
			block,
		})
		require.Zero(t, exitCode)

		log, err := os.ReadFile(logFile)
		require.NoError(t, err)
		return out.String(), string(log)
	}

	first, firstLog := run()
	second, secondLog := run()

	assert.Equal(t, first, second)
	assert.Contains(t, firstLog, "Cache miss")
	assert.Contains(t, secondLog, "Cache hit")
}

func TestMainCmd_noCache(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader("<pre><code>x</code></pre>"),
		Stdout: &stdout,
		Stderr: &stderr,
	}).Run([]string{"-no-cache", "-debug", "-lang", "text"})
	require.Zero(t, exitCode)

	assert.Contains(t, stderr.String(), "Caching disabled")
	assert.NotContains(t, stderr.String(), "Cache miss")
}

func TestMainCmd_badCache(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader("<pre><code>x</code></pre>"),
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"-cache", "memcached://localhost"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), `codeblock: cache "memcached://localhost": unknown store`)
}

func TestMainCmd_css(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		var stdout bytes.Buffer
		exitCode := (&mainCmd{
			Stdin:  strings.NewReader("must not be read"),
			Stdout: &stdout,
			Stderr: iotest.Writer(t),
		}).Run([]string{"-css", "-theme", "monokai"})
		require.Zero(t, exitCode)

		css := stdout.String()
		assert.Contains(t, css, ".hljs")
		assert.NotContains(t, css, ".chroma")
		assert.Contains(t, css, ".shcb-language {")
		assert.NotContains(t, css, "#ddf6ff", "monokai is dark")
		assert.Contains(t, css, ".hljs > mark.shcb-loc { background-color: #")
	})

	t.Run("file with line color", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "style.css")
		exitCode := (&mainCmd{
			Stdin:  strings.NewReader(""),
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
		}).Run([]string{"-css=" + path, "-line-color", "#abcdef"})
		require.Zero(t, exitCode)

		css, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(css), ".hljs > mark.shcb-loc { background-color: #abcdef; }")
	})
}

func TestMainCmd_themeColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want string
	}{
		{give: "github", want: "#ddf6ff\n"},
		{give: "monokai", want: "#474843\n"},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			var stdout bytes.Buffer
			exitCode := (&mainCmd{
				Stdin:  strings.NewReader(""),
				Stdout: &stdout,
				Stderr: iotest.Writer(t),
			}).Run([]string{"-theme-color", tt.give})
			require.Zero(t, exitCode)
			assert.Equal(t, tt.want, stdout.String())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		exitCode := (&mainCmd{
			Stdin:  strings.NewReader(""),
			Stdout: iotest.Writer(t),
			Stderr: &stderr,
		}).Run([]string{"-theme-color", "nope"})
		assert.NotZero(t, exitCode)
		assert.Contains(t, stderr.String(), "unrecognized theme")
	})
}

func TestMainCmd_listThemes(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-list-themes"})
	require.Zero(t, exitCode)

	themes := strings.Fields(stdout.String())
	assert.Contains(t, themes, "github")
	assert.Contains(t, themes, "monokai")
	assert.Contains(t, themes, "plain")
}
