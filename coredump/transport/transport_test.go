package transport_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dlafreniere/coredump/coredump/transport"
)

func TestReadFramedSkipsLeadingNoiseAndStopsAtETX(t *testing.T) {
	buf := bytes.NewReader([]byte{0xFF, 0xFF, 0x02, 'a', 'b', 'c', 0x03, 'x', 'y'})

	payload, err := transport.ReadFramed(buf)
	if err != nil {
		t.Fatalf("ReadFramed() error: %v", err)
	}
	if string(payload) != "abc" {
		t.Fatalf("ReadFramed() = %q, want %q", payload, "abc")
	}
}

func TestReadFramedErrorsOnTruncatedStream(t *testing.T) {
	buf := bytes.NewReader([]byte{0x02, 'a', 'b'})

	if _, err := transport.ReadFramed(buf); err == nil {
		t.Fatalf("ReadFramed() = nil error, want error on truncated frame")
	}
}

func TestReadRegionFileReturnsContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.dump")
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	if err := os.WriteFile(path, want, 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := transport.ReadRegionFile(path)
	if err != nil {
		t.Fatalf("ReadRegionFile() error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadRegionFile() = %v, want %v", got, want)
	}
}

func TestReadRegionFileMissingFileFails(t *testing.T) {
	if _, err := transport.ReadRegionFile("/nonexistent/path/region.dump"); err == nil {
		t.Fatalf("ReadRegionFile() = nil error, want error for missing file")
	}
}
