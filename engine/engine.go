// Package engine runs the rendering pipeline: parse, style, layout and paint.
package engine

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/boxrender/css"
	"github.com/chrisuehlinger/boxrender/dom"
	"github.com/chrisuehlinger/boxrender/html"
	"github.com/chrisuehlinger/boxrender/internal/config"
	"github.com/chrisuehlinger/boxrender/layout"
	"github.com/chrisuehlinger/boxrender/render"
)

const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

// Options configures an Engine.
type Options struct {
	ViewportWidth  int
	ViewportHeight int
	// UserAgentStyles cascades the built-in display defaults beneath the
	// author stylesheets.
	UserAgentStyles bool
	// EmbeddedStyles adds <style> element contents as author stylesheets
	// after the external one.
	EmbeddedStyles bool
	// InlineStyles applies style attributes after the matched rules.
	InlineStyles bool
	// ImportantDeclarations applies !important declarations after all
	// normal ones.
	ImportantDeclarations bool
}

// DefaultOptions returns an 800x600 viewport with no optional stylesheets.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
	}
}

// OptionsFromConfig maps loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ViewportWidth:         cfg.Viewport.Width,
		ViewportHeight:        cfg.Viewport.Height,
		UserAgentStyles:       cfg.Render.UserAgentStyles,
		EmbeddedStyles:        cfg.Render.EmbeddedStyles,
		InlineStyles:          cfg.Render.InlineStyles,
		ImportantDeclarations: cfg.Render.ImportantDeclarations,
	}
}

// Result holds every intermediate tree of one render. Canvas is nil when
// only layout was requested.
type Result struct {
	Document *dom.Node
	Styles   *css.StyledNode
	Layout   *layout.LayoutBox
	Canvas   *render.Canvas
}

// Engine renders documents. It holds no per-render state and is safe for
// concurrent use.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// New creates an engine. Non-positive viewport sizes take the defaults and a
// nil logger discards output.
func New(opts Options, logger *zap.Logger) *Engine {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger.Named("engine")}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Viewport returns the containing block of the document root.
func (e *Engine) Viewport() layout.Dimensions {
	return layout.Dimensions{
		Content: layout.Rect{
			Width:  float64(e.opts.ViewportWidth),
			Height: float64(e.opts.ViewportHeight),
		},
	}
}

// Layout parses, styles and lays out a document. Stylesheet errors are
// logged and the valid rules are still applied.
func (e *Engine) Layout(markup, stylesheet string) (*Result, error) {
	doc, err := html.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	st := css.NewStyleTree()
	st.SetInlineStyles(e.opts.InlineStyles)
	st.SetImportantDeclarations(e.opts.ImportantDeclarations)
	if e.opts.UserAgentStyles {
		st.SetUserAgentStylesheet(css.UserAgentStylesheet())
	}
	if err := st.AddStylesheet(stylesheet); err != nil {
		e.logger.Warn("Dropped invalid CSS", zap.String("source", "stylesheet"), zap.Error(err))
	}
	if e.opts.EmbeddedStyles {
		e.addEmbeddedStyles(st, markup)
	}

	styles := st.BuildStyleTree(doc)
	root, err := layout.LayoutTree(styles, e.Viewport())
	if err != nil {
		return nil, fmt.Errorf("laying out document: %w", err)
	}

	e.logger.Debug("Laid out document",
		zap.Int("nodes", doc.Count()),
		zap.Int("boxes", root.Count()),
		zap.Float64("height", root.Dimensions.MarginBox().Height),
	)
	return &Result{Document: doc, Styles: styles, Layout: root}, nil
}

func (e *Engine) addEmbeddedStyles(st *css.StyleTree, markup string) {
	sheets, err := html.EmbeddedStylesheets(markup)
	if err != nil {
		e.logger.Warn("Could not extract embedded styles", zap.Error(err))
		return
	}
	for i, src := range sheets {
		if err := st.AddStylesheet(src); err != nil {
			e.logger.Warn("Dropped invalid CSS", zap.String("source", "style element"), zap.Int("index", i), zap.Error(err))
		}
	}
}

// Render lays out a document and paints it onto a viewport-sized canvas.
func (e *Engine) Render(markup, stylesheet string) (*Result, error) {
	res, err := e.Layout(markup, stylesheet)
	if err != nil {
		return nil, err
	}
	res.Canvas = render.Paint(res.Layout, e.Viewport().Content)
	return res, nil
}

// RenderFiles renders the document at htmlPath with the stylesheet at
// cssPath. An empty cssPath renders without an external stylesheet.
func (e *Engine) RenderFiles(htmlPath, cssPath string) (*Result, error) {
	markup, stylesheet, err := readSources(htmlPath, cssPath)
	if err != nil {
		return nil, err
	}
	return e.Render(markup, stylesheet)
}

// LayoutFiles is RenderFiles without painting.
func (e *Engine) LayoutFiles(htmlPath, cssPath string) (*Result, error) {
	markup, stylesheet, err := readSources(htmlPath, cssPath)
	if err != nil {
		return nil, err
	}
	return e.Layout(markup, stylesheet)
}

func readSources(htmlPath, cssPath string) (string, string, error) {
	markup, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("reading document: %w", err)
	}
	if cssPath == "" {
		return string(markup), "", nil
	}
	stylesheet, err := os.ReadFile(cssPath)
	if err != nil {
		return "", "", fmt.Errorf("reading stylesheet: %w", err)
	}
	return string(markup), string(stylesheet), nil
}
