package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/boxrender/internal/observability"
	"github.com/chrisuehlinger/boxrender/layout"
)

const (
	docHTML = `<div class="outer"><div class="inner"></div></div>`
	docCSS  = `div { display: block; } .outer { padding: 5px; background: red; } .inner { height: 10px; }`
)

// runCmd executes a fresh command tree in an empty working directory.
func runCmd(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)
	t.Chdir(dir)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := runCmd(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "boxrender version "+Version+"\n", out)

	out, _, err = runCmd(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "boxrender version "+Version)
}

func TestRenderDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "examples/test.html", docHTML)
	writeFile(t, dir, "examples/test.css", docCSS)

	out, _, err := runCmd(t, dir, "render", "--width", "40", "--height", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved output as output.png")

	img, err := gg.LoadPNG(filepath.Join(dir, "output.png"))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
}

func TestRenderFlags(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeFile(t, dir, "doc.html", docHTML)
	output := filepath.Join(dir, "out.png")

	_, _, err := runCmd(t, dir, "render", "-H", htmlPath, "-C", "", "-o", output)
	require.NoError(t, err)
	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestRenderMissingInput(t *testing.T) {
	_, _, err := runCmd(t, t.TempDir(), "render")
	assert.ErrorContains(t, err, "reading document")
}

func TestLayoutJSON(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeFile(t, dir, "doc.html", docHTML)
	cssPath := writeFile(t, dir, "doc.css", docCSS)

	out, _, err := runCmd(t, dir, "layout", "--html", htmlPath, "--css", cssPath, "--width", "100")
	require.NoError(t, err)

	var snap layout.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "block", snap.Type)
	assert.Equal(t, "div", snap.Tag)
	assert.Equal(t, 90.0, snap.Content.Width)
	assert.Equal(t, 10.0, snap.Content.Height)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, layout.Rect{X: 5, Y: 5, Width: 90, Height: 10}, snap.Children[0].Content)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeFile(t, dir, "doc.html", `<html><head></head><p></p></html>`)
	writeFile(t, dir, "boxrender.yaml", "viewport:\n  width: 50\nrender:\n  user_agent_styles: true\n")

	out, _, err := runCmd(t, dir, "layout", "--html", htmlPath, "--css", "")
	require.NoError(t, err)

	var snap layout.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 50.0, snap.Content.Width)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "p", snap.Children[0].Tag)

	// Flags override the file.
	out, _, err = runCmd(t, dir, "layout", "--html", htmlPath, "--css", "", "--width", "70")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 70.0, snap.Content.Width)
}

func TestExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "conf/custom.yaml", "batch:\n  concurrency: 0\n")

	_, _, err := runCmd(t, dir, "-c", cfgPath, "layout")
	assert.ErrorContains(t, err, "batch.concurrency")

	_, _, err = runCmd(t, dir, "--config", filepath.Join(dir, "missing.yaml"), "layout")
	assert.ErrorContains(t, err, "error reading config file")
}

func TestInlineStylesFlag(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeFile(t, dir, "doc.html", `<div style="display: block; width: 12px"></div>`)

	out, _, err := runCmd(t, dir, "layout", "--html", htmlPath, "--css", "")
	require.NoError(t, err)
	var snap layout.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "inline", snap.Type)

	out, _, err = runCmd(t, dir, "layout", "--html", htmlPath, "--css", "", "--inline-styles")
	require.NoError(t, err)
	snap = layout.Snapshot{}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "block", snap.Type)
	assert.Equal(t, 12.0, snap.Content.Width)
}

func TestLogLevel(t *testing.T) {
	dir := t.TempDir()
	htmlPath := writeFile(t, dir, "doc.html", docHTML)

	_, stderr, err := runCmd(t, dir, "--log-level", "debug", "layout", "--html", htmlPath, "--css", "")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration loaded")

	_, stderr, err = runCmd(t, dir, "--log-level", "error", "render", "--html", htmlPath, "--css", "")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Rendered document")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs/one.html", docHTML)
	writeFile(t, dir, "docs/one.css", docCSS)
	writeFile(t, dir, "docs/two.html", "<div></div>")

	out, _, err := runCmd(t, dir, "batch", "docs", "--out-dir", "pngs", "--concurrency", "2", "--width", "20", "--height", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 2 documents into pngs")

	for _, name := range []string{"one.png", "two.png"} {
		img, err := gg.LoadPNG(filepath.Join(dir, "pngs", name))
		require.NoError(t, err, name)
		assert.Equal(t, 20, img.Bounds().Dx())
	}
}

func TestBatchErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCmd(t, dir, "batch")
	assert.Error(t, err, "directory argument is required")

	_, _, err = runCmd(t, dir, "batch", dir)
	assert.ErrorContains(t, err, "no .html documents found")

	writeFile(t, dir, "docs/bad.html", "<div><p></div>")
	_, _, err = runCmd(t, dir, "batch", "docs")
	assert.ErrorContains(t, err, "job bad")
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, empty, plain := "~/x.html", "", "rel/y.css"
	require.NoError(t, expandPaths(&p, &empty, &plain))
	assert.Equal(t, filepath.Join(home, "x.html"), p)
	assert.Empty(t, empty)
	assert.Equal(t, "rel/y.css", plain)
}
