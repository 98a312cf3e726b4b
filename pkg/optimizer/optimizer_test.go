package optimizer

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path string, content []byte) {
	t.Helper()
	if err := afero.WriteFile(fs, path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Exists(%s) error = %v", path, err)
	}
	return ok
}

func TestOptimizer_CompressesLargeFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 高度可压缩的内容
	content := []byte(strings.Repeat("a", 4096))
	writeFile(t, fs, "/data/LOG/server.log", content)

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if exists(t, fs, "/data/LOG/server.log") {
		t.Error("Expected original to be removed after successful compression")
	}

	archivePath := "/data/Compressed/server.zip"
	if !exists(t, fs, archivePath) {
		t.Fatal("Expected archive to exist")
	}

	archiveInfo, err := fs.Stat(archivePath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if archiveInfo.Size() >= int64(len(content)) {
		t.Errorf("Archive (%d bytes) should be smaller than original (%d bytes)",
			archiveInfo.Size(), len(content))
	}

	if stats.Compressed != 1 {
		t.Errorf("Expected 1 compressed, got %d", stats.Compressed)
	}
	expectedSaved := int64(len(content)) - archiveInfo.Size()
	if stats.SpaceSaved != expectedSaved {
		t.Errorf("Expected %d bytes saved, got %d", expectedSaved, stats.SpaceSaved)
	}
}

func TestOptimizer_KeepsOriginalWhenNoGain(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 高熵内容压缩后反而更大
	content := make([]byte, 300)
	rng := rand.New(rand.NewSource(42))
	rng.Read(content)
	writeFile(t, fs, "/data/BIN/noise.bin", content)

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !exists(t, fs, "/data/BIN/noise.bin") {
		t.Error("Expected original to be kept when compression has no gain")
	}
	if exists(t, fs, "/data/Compressed/noise.zip") {
		t.Error("Expected no-gain archive to be discarded")
	}

	if stats.Compressed != 0 {
		t.Errorf("Expected 0 compressed, got %d", stats.Compressed)
	}
	if stats.SpaceSaved != 0 {
		t.Errorf("Expected 0 bytes saved, got %d", stats.SpaceSaved)
	}
}

func TestOptimizer_SkipsSmallFiles(t *testing.T) {
	fs := afero.NewMemMapFs()

	writeFile(t, fs, "/data/TXT/small.txt", []byte(strings.Repeat("b", 50)))

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !exists(t, fs, "/data/TXT/small.txt") {
		t.Error("Expected small file to be untouched")
	}
	if stats.Compressed != 0 {
		t.Errorf("Expected 0 compressed, got %d", stats.Compressed)
	}
}

func TestOptimizer_SkipsCompressedFormats(t *testing.T) {
	fs := afero.NewMemMapFs()

	// zip 魔数开头的文件再压缩没有意义
	content := append([]byte{0x50, 0x4b, 0x03, 0x04}, []byte(strings.Repeat("x", 2048))...)
	writeFile(t, fs, "/data/ZIP/backup.zip", content)

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !exists(t, fs, "/data/ZIP/backup.zip") {
		t.Error("Expected already-compressed file to be untouched")
	}
	if exists(t, fs, "/data/Compressed/backup.zip") {
		t.Error("Expected no archive for already-compressed file")
	}
	if stats.Compressed != 0 {
		t.Errorf("Expected 0 compressed, got %d", stats.Compressed)
	}
}

func TestOptimizer_SkipsArchiveDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()

	// 归档目录里的文件不参与压缩，即使超过阈值
	content := []byte(strings.Repeat("c", 4096))
	writeFile(t, fs, "/data/Compressed/kept.txt", content)

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !exists(t, fs, "/data/Compressed/kept.txt") {
		t.Error("Expected file under Compressed to be untouched")
	}
	if stats.Compressed != 0 {
		t.Errorf("Expected 0 compressed, got %d", stats.Compressed)
	}
}

func TestOptimizer_DoesNotOverwriteExistingArchive(t *testing.T) {
	fs := afero.NewMemMapFs()

	marker := []byte("pre-existing archive")
	writeFile(t, fs, filepath.Join("/data", "Compressed", "report.zip"), marker)
	writeFile(t, fs, "/data/TXT/report.txt", []byte(strings.Repeat("d", 4096)))

	opt := New(fs, "/data", 100)
	stats, err := opt.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !exists(t, fs, "/data/TXT/report.txt") {
		t.Error("Expected original to be kept when archive name is taken")
	}

	data, err := afero.ReadFile(fs, "/data/Compressed/report.zip")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != string(marker) {
		t.Error("Existing archive was overwritten")
	}

	if stats.Compressed != 0 {
		t.Errorf("Expected 0 compressed, got %d", stats.Compressed)
	}
}
