package dropzone

import (
	"fmt"
	"strings"
)

// Domain names one of the two independent selections.
type Domain int

const (
	// DomainFile is the generic file selection.
	DomainFile Domain = iota

	// DomainImage is the image selection.
	DomainImage
)

// String returns the route segment for the domain.
func (d Domain) String() string {
	switch d {
	case DomainFile:
		return "file"
	case DomainImage:
		return "image"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// ParseDomain parses "file" or "image".
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return DomainFile, nil
	case "image":
		return DomainImage, nil
	}
	return 0, fmt.Errorf("dropzone: unknown domain %q", s)
}

// Tab is the active view of the widget.
type Tab int

const (
	// TabFile shows the file drop zone and list. It is the default.
	TabFile Tab = iota

	// TabImage shows the image drop zone and thumbnail grid.
	TabImage
)

// String returns the route segment for the tab.
func (t Tab) String() string {
	if t == TabImage {
		return "image"
	}
	return "file"
}

// ParseTab parses "file" or "image".
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return TabFile, nil
	case "image":
		return TabImage, nil
	}
	return 0, fmt.Errorf("dropzone: unknown tab %q", s)
}

// RejectPolicy decides what happens to oversized files in a batch.
type RejectPolicy string

const (
	// RejectDrop stores only the files that passed validation.
	RejectDrop RejectPolicy = "drop"

	// RejectKeep stores the whole batch, oversized files included.
	// The notification still fires.
	RejectKeep RejectPolicy = "keep"
)

// ParseRejectPolicy parses "keep" or "drop". An empty string is RejectDrop.
func ParseRejectPolicy(s string) (RejectPolicy, error) {
	switch RejectPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RejectDrop:
		return RejectDrop, nil
	case RejectKeep:
		return RejectKeep, nil
	}
	return "", fmt.Errorf("dropzone: unknown reject policy %q (want keep or drop)", s)
}

// Default accept hints passed to the native picker.
const (
	DefaultFileAccept  = ".pdf,.doc,.docx,.ods,.xls,.xlsx"
	DefaultImageAccept = "image/*"
)

// DefaultFileSize is the per-file limit in MiB of DefaultConfig.
const DefaultFileSize = 50

// DomainOptions configures one domain.
type DomainOptions struct {
	// Visible controls whether the drop zone renders. It only affects
	// the file domain; the image zone renders whenever the domain is
	// configured.
	Visible bool

	// SingleFile restricts the selection to one file.
	SingleFile bool

	// Title is the tab caption.
	Title string

	// Accept is the advisory type hint for the native picker.
	Accept string

	// RejectPolicy decides whether oversized files are stored.
	RejectPolicy RejectPolicy
}

// Messages holds user-facing strings.
type Messages struct {
	SizeSummary    string `json:"sizeSummary,omitempty"`
	SizeDetail     string `json:"sizeDetail,omitempty"`
	FilePrompt     string `json:"filePrompt,omitempty"`
	ImagePrompt    string `json:"imagePrompt,omitempty"`
	SelectedFiles  string `json:"selectedFiles,omitempty"`
	SelectedImages string `json:"selectedImages,omitempty"`
	Remove         string `json:"remove,omitempty"`
}

// Config configures a Widget. It is immutable once the widget is built.
type Config struct {
	// FileSize is the maximum size of every file in MiB, shared by both
	// domains. It is used as given: zero rejects every file with content.
	FileSize float64

	// Label is the widget heading.
	Label string

	// Name is the id and name of the hidden form field.
	Name string

	// File configures the file domain. Nil hides it.
	File *DomainOptions

	// Image configures the image domain. Nil disables it.
	Image *DomainOptions

	Messages Messages
}

// DefaultConfig returns a widget configuration with both domains
// enabled and every default applied.
func DefaultConfig() Config {
	return Config{
		FileSize: DefaultFileSize,
		Name:     "files",
		File:     &DomainOptions{Visible: true},
		Image:    &DomainOptions{},
	}.withDefaults()
}

// Options returns the options of d, or nil when d is not configured.
func (c Config) Options(d Domain) *DomainOptions {
	switch d {
	case DomainFile:
		return c.File
	case DomainImage:
		return c.Image
	}
	return nil
}

// withDefaults returns a copy of c with every zero value defaulted.
// Domain options are copied so the caller's values are never shared.
func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "files"
	}

	if c.File != nil {
		opts := *c.File
		opts.applyDefaults("File", DefaultFileAccept)
		c.File = &opts
	}
	if c.Image != nil {
		opts := *c.Image
		opts.applyDefaults("Image", DefaultImageAccept)
		c.Image = &opts
	}

	m := &c.Messages
	if m.SizeSummary == "" {
		m.SizeSummary = "Maximum size exceeded"
	}
	if m.SizeDetail == "" {
		m.SizeDetail = "Some files exceed the allowed size limit."
	}
	if m.FilePrompt == "" {
		m.FilePrompt = "Select files or drag them here (Files)"
	}
	if m.ImagePrompt == "" {
		m.ImagePrompt = "Select files or drag them here (Images)"
	}
	if m.SelectedFiles == "" {
		m.SelectedFiles = "Selected files:"
	}
	if m.SelectedImages == "" {
		m.SelectedImages = "Selected images:"
	}
	if m.Remove == "" {
		m.Remove = "Remove"
	}
	return c
}

func (o *DomainOptions) applyDefaults(title, accept string) {
	if o.Title == "" {
		o.Title = title
	}
	if o.Accept == "" {
		o.Accept = accept
	}
	if o.RejectPolicy == "" {
		o.RejectPolicy = RejectDrop
	}
}
