package hasher

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
)

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]Algorithm{
		"xxhash":  XXHash,
		"XXH64":   XXHash,
		"md5":     MD5,
		" SHA256": SHA256,
		"sha-256": SHA256,
	}
	for in, want := range cases {
		got, err := ParseAlgorithm(in)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", in, got, want)
		}
	}

	for _, bad := range []string{"", "crc32", "sha1"} {
		if _, err := ParseAlgorithm(bad); !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("ParseAlgorithm(%q) expected ErrUnknownAlgorithm, got %v", bad, err)
		}
	}
}

func TestAlgorithm_Size(t *testing.T) {
	if XXHash.Size() != 8 {
		t.Errorf("Expected xxhash size 8, got %d", XXHash.Size())
	}
	if MD5.Size() != 16 {
		t.Errorf("Expected md5 size 16, got %d", MD5.Size())
	}
	if SHA256.Size() != 32 {
		t.Errorf("Expected sha256 size 32, got %d", SHA256.Size())
	}
	if XXHash.Cryptographic() || !SHA256.Cryptographic() {
		t.Error("Only sha256 should be reported as cryptographic")
	}
}

func TestHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	testContent := []byte("test content for hashing")
	if err := afero.WriteFile(fs, "/test.txt", testContent, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	for _, algo := range Algorithms() {
		h := New(fs, algo, internal.DefaultChunkSize)

		digest, _, err := h.Hash("/test.txt")
		if err != nil {
			t.Fatalf("Hash() with %s error = %v", algo, err)
		}
		if len(digest.Sum) != algo.Size() {
			t.Errorf("Expected %d byte digest for %s, got %d", algo.Size(), algo, len(digest.Sum))
		}
		if digest.Algorithm != string(algo) {
			t.Errorf("Expected digest tagged %s, got %s", algo, digest.Algorithm)
		}

		digest2, _, err := h.Hash("/test.txt")
		if err != nil {
			t.Fatalf("Hash() second call error = %v", err)
		}
		if !digest.Equal(digest2) {
			t.Errorf("Hash should be consistent for same file with %s", algo)
		}
	}
}

func TestHash_MatchesStdlib(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("0123456789"), 3000)
	if err := afero.WriteFile(fs, "/data.bin", content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// 块大小小于文件，验证分块读取结果正确
	h := New(fs, SHA256, internal.MinChunkSize)
	digest, _, err := h.Hash("/data.bin")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	want := sha256.Sum256(content)
	if !bytes.Equal(digest.Sum, want[:]) {
		t.Errorf("Chunked digest %x does not match %x", digest.Sum, want)
	}
}

func TestHash_DifferentContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/file1.txt", []byte("content1"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := afero.WriteFile(fs, "/file2.txt", []byte("content2"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	h := New(fs, XXHash, internal.DefaultChunkSize)

	d1, _, err := h.Hash("/file1.txt")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	d2, _, err := h.Hash("/file2.txt")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if d1.Equal(d2) {
		t.Error("Different content should produce different hashes")
	}
}

func TestHash_AlgorithmTagged(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/f", []byte("same"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	d1, _, _ := New(fs, MD5, 0).Hash("/f")
	d2, _, _ := New(fs, SHA256, 0).Hash("/f")
	if d1.Equal(d2) {
		t.Error("Digests from different algorithms must not compare equal")
	}
}

func TestHash_NonExistentFile(t *testing.T) {
	h := New(afero.NewMemMapFs(), SHA256, 0)
	if _, _, err := h.Hash("/non/existent/file.txt"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestHash_DetectKind(t *testing.T) {
	fs := afero.NewMemMapFs()
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	if err := afero.WriteFile(fs, "/image.png", png, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := afero.WriteFile(fs, "/plain.txt", []byte("random content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	h := New(fs, XXHash, 0)

	_, kind, err := h.Hash("/image.png")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if kind != "image/png" {
		t.Errorf("Expected image/png, got %q", kind)
	}

	_, kind, err = h.Hash("/plain.txt")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if kind != "" {
		t.Errorf("Expected unknown kind, got %q", kind)
	}
}

func TestHash_LargeFile(t *testing.T) {
	tempDir := t.TempDir()

	largeFile := filepath.Join(tempDir, "large.txt")
	const fileSize = 10 * 1024 * 1024

	file, err := os.Create(largeFile)
	if err != nil {
		t.Fatalf("Failed to create large file: %v", err)
	}

	data := make([]byte, 4096)
	for i := 0; i < fileSize/4096; i++ {
		if _, err := file.Write(data); err != nil {
			file.Close()
			t.Fatalf("Failed to write to large file: %v", err)
		}
	}
	file.Close()

	h := New(afero.NewOsFs(), XXHash, internal.DefaultChunkSize)
	digest, _, err := h.Hash(largeFile)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if len(digest.Sum) != 8 {
		t.Errorf("Expected 8 byte digest for large file, got %d", len(digest.Sum))
	}
}
