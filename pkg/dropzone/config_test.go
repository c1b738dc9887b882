package dropzone

import "testing"

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{"file", TabFile, false},
		{"IMAGE", TabImage, false},
		{" image ", TabImage, false},
		{"video", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTab(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTab(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDomain(t *testing.T) {
	if d, err := ParseDomain("image"); err != nil || d != DomainImage {
		t.Errorf("ParseDomain(image) = %v, %v", d, err)
	}
	if _, err := ParseDomain("tab"); err == nil {
		t.Error("expected error")
	}
	if DomainFile.String() != "file" || DomainImage.String() != "image" {
		t.Error("unexpected domain strings")
	}
}

func TestParseRejectPolicy(t *testing.T) {
	tests := map[string]RejectPolicy{
		"":     RejectDrop,
		"drop": RejectDrop,
		"Keep": RejectKeep,
	}
	for in, want := range tests {
		got, err := ParseRejectPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseRejectPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRejectPolicy("discard"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestConfigDefaults(t *testing.T) {
	fileOpts := &DomainOptions{Visible: true}
	w := New(Config{File: fileOpts})
	cfg := w.Config()

	if cfg.FileSize != 0 {
		t.Errorf("FileSize = %v, want 0 kept as given", cfg.FileSize)
	}
	if got := DefaultConfig().FileSize; got != DefaultFileSize {
		t.Errorf("DefaultConfig().FileSize = %v, want %v", got, DefaultFileSize)
	}
	if cfg.Name != "files" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.File.Accept != DefaultFileAccept || cfg.File.Title != "File" || cfg.File.RejectPolicy != RejectDrop {
		t.Errorf("File options = %+v", *cfg.File)
	}
	if cfg.Image != nil {
		t.Error("Image must stay nil when not configured")
	}
	if fileOpts.Accept != "" {
		t.Error("caller's options were modified")
	}
	if cfg.Messages.SizeSummary != "Maximum size exceeded" {
		t.Errorf("SizeSummary = %q", cfg.Messages.SizeSummary)
	}

	def := DefaultConfig()
	if def.Image == nil || def.Image.Accept != DefaultImageAccept || def.Image.Title != "Image" {
		t.Errorf("DefaultConfig image = %+v", def.Image)
	}
	if def.Options(DomainFile) != def.File || def.Options(Domain(7)) != nil {
		t.Error("Options lookup mismatch")
	}
}
