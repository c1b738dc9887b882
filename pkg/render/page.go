package render

import (
	"io"

	"github.com/vango-dev/dropzone/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified
	Lang string

	// Styles contains inline CSS styles
	Styles []string

	// ClientScript is inline JavaScript appended to the body
	ClientScript string

	// Pretty enables indented output
	Pretty bool
}

// RenderPage writes a complete HTML5 document.
func RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.Title(vdom.Text(page.Title)),
	)
	for _, css := range page.Styles {
		head.Children = append(head.Children, vdom.Style(vdom.Raw(css)))
	}

	body := vdom.Body(page.Body)
	if page.ClientScript != "" {
		body.Children = append(body.Children, vdom.Script(vdom.Raw(page.ClientScript)))
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	renderer := NewRenderer(RendererConfig{Pretty: page.Pretty})
	return renderer.RenderToWriter(w, vdom.Html(vdom.Lang(lang), head, body))
}
