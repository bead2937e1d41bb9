package region_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dlafreniere/coredump/region"
)

func TestSliceRegionWordRoundTrip(t *testing.T) {
	r := region.New(64)

	if ok := r.WriteWord(4, 0xDEADBEEF); !ok {
		t.Fatalf("WriteWord at valid offset failed")
	}
	got, ok := r.ReadWord(4)
	if !ok || got != 0xDEADBEEF {
		t.Fatalf("ReadWord = (%#x, %v), want (0xdeadbeef, true)", got, ok)
	}

	if _, ok := r.ReadWord(62); ok {
		t.Fatalf("ReadWord at out-of-range offset should fail")
	}
	if ok := r.WriteWord(-1, 0); ok {
		t.Fatalf("WriteWord at negative offset should fail")
	}
}

func TestFillCoversWholeBuffer(t *testing.T) {
	buf := make([]byte, 16)
	region.Fill(buf, 0xFF)
	for i, b := range buf {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x, want 0xff", i, b)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	r := region.New(32)
	payload := []byte("hello, coredump")

	if ok := r.WriteBytes(8, payload); !ok {
		t.Fatalf("WriteBytes failed")
	}
	got, ok := r.ReadBytes(8, len(payload))
	if !ok || string(got) != string(payload) {
		t.Fatalf("ReadBytes = (%q, %v), want (%q, true)", got, ok, payload)
	}

	if ok := r.WriteBytes(30, payload); ok {
		t.Fatalf("WriteBytes spanning past the end should fail")
	}
}

func TestMmapRegionSurvivesReopen(t *testing.T) {
	if _, err := region.OpenMmap(filepath.Join(t.TempDir(), "probe"), 4); err != nil {
		t.Skipf("mmap-backed regions unavailable: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "coredump.region")

	first, err := region.OpenMmap(path, 128)
	if err != nil {
		t.Fatalf("OpenMmap: %v", err)
	}
	if !first.WriteWord(0, 0xDEADBEEF) || !first.WriteWord(4, ^uint32(0xDEADBEEF)) {
		t.Fatalf("failed to seed mmap region")
	}
	if closer, ok := first.(region.Closer); ok {
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backing file missing after close: %v", err)
	}

	second, err := region.OpenMmap(path, 128)
	if err != nil {
		t.Fatalf("re-OpenMmap: %v", err)
	}
	defer func() {
		if closer, ok := second.(region.Closer); ok {
			closer.Close()
		}
	}()

	key, ok := second.ReadWord(0)
	if !ok || key != 0xDEADBEEF {
		t.Fatalf("key after reopen = (%#x, %v), want (0xdeadbeef, true)", key, ok)
	}
	antiKey, ok := second.ReadWord(4)
	if !ok || antiKey != ^uint32(0xDEADBEEF) {
		t.Fatalf("anti-key after reopen = (%#x, %v), want (%#x, true)", antiKey, ok, ^uint32(0xDEADBEEF))
	}
}
