package classifier

import (
	"testing"

	"github.com/spf13/afero"
)

func TestResolver_KnownExtensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	resolver := NewResolver(fs)

	tests := []struct {
		path     string
		expected string
	}{
		{"/data/photo.jpg", "JPG"},
		{"/data/photo.jpeg", "JPG"},
		{"/data/image.png", "PNG"},
		{"/data/clip.mp4", "MP4"},
		{"/data/song.flac", "FLAC"},
		{"/data/report.pdf", "PDF"},
		{"/data/notes.md", "TXT"},
		{"/data/main.go", "GO"},
		{"/data/backup.tar", "TAR"},
		{"/data/shot.cr2", "RAW"},
		{"/data/font.woff2", "WOFF"},
		{"/data/model.stl", "STL"},
		{"/data/disk.vmdk", "VMDK"},
	}

	for _, tt := range tests {
		if got := resolver.Resolve(tt.path); got != tt.expected {
			t.Errorf("Resolve(%s) = %s, want %s", tt.path, got, tt.expected)
		}
	}
}

func TestResolver_CaseInsensitive(t *testing.T) {
	fs := afero.NewMemMapFs()
	resolver := NewResolver(fs)

	if got := resolver.Resolve("/data/PHOTO.JPG"); got != "JPG" {
		t.Errorf("Resolve(PHOTO.JPG) = %s, want JPG", got)
	}
	if got := resolver.Resolve("/data/Notes.Md"); got != "TXT" {
		t.Errorf("Resolve(Notes.Md) = %s, want TXT", got)
	}
}

func TestResolver_UnknownExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	resolver := NewResolver(fs)

	if got := resolver.Resolve("/data/data.xyz"); got != "XYZ" {
		t.Errorf("Resolve(data.xyz) = %s, want XYZ", got)
	}
	if got := resolver.Resolve("/data/weird.q2x"); got != "Q2X" {
		t.Errorf("Resolve(weird.q2x) = %s, want Q2X", got)
	}
}

func TestResolver_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	resolver := NewResolver(fs)

	first := resolver.Resolve("/data/photo.jpg")
	for i := 0; i < 5; i++ {
		if got := resolver.Resolve("/data/photo.jpg"); got != first {
			t.Errorf("Resolve is not stable: got %s after %s", got, first)
		}
	}
}

func TestResolver_ExtensionBeatsContent(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 内容是纯文本，但扩展名是 .jpg：扩展名优先
	if err := afero.WriteFile(fs, "/data/fake.jpg", []byte("plain text"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/fake.jpg"); got != "JPG" {
		t.Errorf("Resolve(fake.jpg) = %s, want JPG", got)
	}
}

func TestResolver_SniffText(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/data/README", []byte("just some readable text"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/README"); got != "Text" {
		t.Errorf("Resolve(README) = %s, want Text", got)
	}
}

func TestResolver_SniffBinaries(t *testing.T) {
	fs := afero.NewMemMapFs()

	content := []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}
	if err := afero.WriteFile(fs, "/data/program", content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/program"); got != "Binaries" {
		t.Errorf("Resolve(program) = %s, want Binaries", got)
	}
}

func TestResolver_SniffBinary(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 无 NUL 字节但不是合法 UTF-8
	content := []byte{0xff, 0xfe, 0x41, 0x42}
	if err := afero.WriteFile(fs, "/data/blob", content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/blob"); got != "Binary" {
		t.Errorf("Resolve(blob) = %s, want Binary", got)
	}
}

func TestResolver_SniffEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/data/empty", []byte{}, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/empty"); got != "Text" {
		t.Errorf("Resolve(empty) = %s, want Text", got)
	}
}

func TestResolver_DotfileHasNoExtension(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/data/.gitignore", []byte("node_modules\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewResolver(fs)
	if got := resolver.Resolve("/data/.gitignore"); got != "Text" {
		t.Errorf("Resolve(.gitignore) = %s, want Text", got)
	}
}

func TestResolver_UnreadableFallback(t *testing.T) {
	fs := afero.NewMemMapFs()
	resolver := NewResolver(fs)

	// 文件不存在：嗅探失败静默落入 No_Extension，不报错
	if got := resolver.Resolve("/data/missing"); got != "No_Extension" {
		t.Errorf("Resolve(missing) = %s, want No_Extension", got)
	}
}
