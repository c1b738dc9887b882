package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/dropzone/pkg/vdom"
)

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "text is escaped",
			node: vdom.Span(vdom.Text(`<b>"x" & 'y'</b>`)),
			want: `<span>&lt;b&gt;&quot;x&quot; &amp; &#39;y&#39;&lt;/b&gt;</span>`,
		},
		{
			name: "attributes are sorted",
			node: vdom.Div(vdom.ID("z"), vdom.Class("c")),
			want: `<div class="c" id="z"></div>`,
		},
		{
			name: "void element has no closing tag",
			node: vdom.Input(vdom.Type("file"), vdom.Multiple(), vdom.Accept("image/*")),
			want: `<input accept="image/*" multiple type="file">`,
		},
		{
			name: "false boolean attribute is omitted",
			node: vdom.Button(vdom.Attr{Key: "disabled", Value: false}, "Go"),
			want: `<button>Go</button>`,
		},
		{
			name: "attribute values are escaped",
			node: vdom.Img(vdom.Alt("a \"b\"\nc")),
			want: `<img alt="a &quot;b&quot;&#10;c">`,
		},
		{
			name: "handlers become data attributes",
			node: vdom.Div(vdom.OnDrop(vdom.Action("/dz/file/drop")), vdom.OnDragOver(vdom.PreventDefault)),
			want: `<div data-on-dragover="!prevent" data-on-drop="/dz/file/drop"></div>`,
		},
		{
			name: "internal props are skipped",
			node: vdom.Div(vdom.Attr{Key: "_meta", Value: 1}),
			want: `<div></div>`,
		},
		{
			name: "fragment renders children only",
			node: vdom.Fragment(vdom.Span("a"), "b"),
			want: `<span>a</span>b`,
		},
		{
			name: "raw is not escaped",
			node: vdom.Div(vdom.Raw("<em>x</em>")),
			want: `<div><em>x</em></div>`,
		},
		{
			name: "component is expanded",
			node: vdom.Div(vdom.Func(func() *vdom.VNode { return vdom.P("hi") })),
			want: `<div><p>hi</p></div>`,
		},
		{
			name: "numeric attributes",
			node: vdom.Div(vdom.TabIndex(2)),
			want: `<div tabindex="2"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderNil(t *testing.T) {
	got, err := RenderToString(nil)
	if err != nil || got != "" {
		t.Errorf("RenderToString(nil) = %q, %v", got, err)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := RenderToString(&vdom.VNode{Kind: vdom.VKind(42)}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got, err := r.RenderToString(vdom.Ul(vdom.Li("a"), vdom.Li("b")))
	if err != nil {
		t.Fatal(err)
	}
	want := "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(&buf, PageData{
		Title:        "Attachments <1>",
		Body:         vdom.Div(vdom.ID("root")),
		Styles:       []string{".dz{color:red}"},
		ClientScript: "console.log('x')",
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Attachments &lt;1&gt;</title>",
		"<style>.dz{color:red}</style>",
		`<div id="root"></div>`,
		"<script>console.log('x')</script>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}
