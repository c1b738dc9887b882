package dropzone

import (
	"fmt"

	. "github.com/vango-dev/dropzone/pkg/vdom"
)

// Render builds the widget tree. It never fails.
func (w *Widget) Render() *VNode {
	cfg := w.cfg

	return Div(
		ID(w.rootID()),
		Class("dropzone"),
		Data("dropzone", cfg.Name),
		Data("active-tab", w.active.String()),
		If(cfg.Label != "", Aside(
			Span(Class("dropzone-label"), cfg.Label),
		)),
		Div(Class("dropzone-body"),
			w.renderTabs(),
			When(w.active == TabFile, w.renderFileTab),
			When(w.active == TabImage, w.renderImageTab),
		),
		Input(Type("hidden"), ID(cfg.Name), Name(cfg.Name), Value(w.HiddenValue())),
	)
}

func (w *Widget) rootID() string {
	return w.cfg.Name + "-dropzone"
}

func (w *Widget) action(format string, args ...any) Action {
	return Action(w.basePath + fmt.Sprintf(format, args...))
}

func (w *Widget) renderTabs() *VNode {
	var tabs []*VNode
	if w.cfg.File != nil {
		tabs = append(tabs, w.renderTab(TabFile, w.cfg.File.Title))
	}
	if w.cfg.Image != nil {
		tabs = append(tabs, w.renderTab(TabImage, w.cfg.Image.Title))
	}
	return Ul(Class("dropzone-tabs"), Role("tablist"), tabs)
}

func (w *Widget) renderTab(tab Tab, title string) *VNode {
	active := w.active == tab
	return Li(
		Button(
			Type("button"),
			Class("dropzone-tab"),
			ClassIf(active, "dropzone-tab-active"),
			Role("tab"),
			AriaSelected(active),
			OnClick(w.action("/tab/%s", tab)),
			title,
		),
	)
}

func (w *Widget) renderFileTab() *VNode {
	opts := w.cfg.File
	entries := w.stores[DomainFile]

	return Fragment(
		When(opts != nil && opts.Visible, func() *VNode {
			return w.renderZone(DomainFile, opts, w.cfg.Messages.FilePrompt)
		}),
		If(len(entries) > 0, Aside(
			Div(Class("dropzone-selection"),
				H3(w.cfg.Messages.SelectedFiles),
				Ul(Class("dropzone-files"),
					Range(entries, func(i int, e entry) *VNode {
						return Li(
							Key(e.file.ID),
							Class("dropzone-file"),
							ClassIf(!Validate(e.file, w.cfg.FileSize), "dropzone-file-oversized"),
							Span(e.file.Name()),
							Button(
								Type("button"),
								Class("dropzone-remove"),
								OnClick(w.action("/file/remove/%d", i)),
								w.cfg.Messages.Remove,
							),
						)
					}),
				),
			),
		)),
	)
}

func (w *Widget) renderImageTab() *VNode {
	opts := w.cfg.Image
	if opts == nil {
		return nil
	}
	entries := w.stores[DomainImage]

	return Fragment(
		w.renderZone(DomainImage, opts, w.cfg.Messages.ImagePrompt),
		If(len(entries) > 0, Div(Class("dropzone-selection"),
			H3(w.cfg.Messages.SelectedImages),
			Div(Class("dropzone-grid"),
				Range(entries, func(i int, e entry) *VNode {
					return Div(
						Key(e.file.ID),
						Class("dropzone-thumb"),
						If(e.preview != "", Img(Src(e.preview), Alt(e.file.Name()), Loading("lazy"))),
						If(e.preview == "", Span(Class("dropzone-thumb-name"), e.file.Name())),
						Button(
							Type("button"),
							Class("dropzone-thumb-remove"),
							AriaLabel(w.cfg.Messages.Remove),
							OnClick(w.action("/image/remove/%d", i)),
							"X",
						),
					)
				}),
			),
		)),
	)
}

func (w *Widget) renderZone(domain Domain, opts *DomainOptions, prompt string) *VNode {
	inputID := fmt.Sprintf("%s-%s-input", w.cfg.Name, domain)

	return Aside(Class("dropzone-zone"),
		Label(For(inputID),
			Div(
				Class("dropzone-target"),
				Data("domain", domain.String()),
				OnDrop(w.action("/%s/drop", domain)),
				OnDragOver(PreventDefault),
				OnDragEnter(HoverOn),
				OnDragLeave(HoverOff),
				OnClick(OpenPicker),
				Div(Class("dropzone-prompt"),
					Span(prompt),
					I(Class("pi", "pi-file-arrow-up")),
				),
				Input(
					Type("file"),
					ID(inputID),
					Hidden(),
					AttrIf(!opts.SingleFile, Multiple()),
					Accept(opts.Accept),
					OnChange(w.action("/%s/pick", domain)),
				),
			),
		),
	)
}
