package resources

import (
	"bytes"
	"image/png"
	"testing"
)

func TestIconsDecodeAndAreCached(t *testing.T) {
	for _, name := range []string{IconApp, IconRunning, IconPaused} {
		first := MustIcon(name)
		if second := MustIcon(name); second != first {
			t.Fatalf("%s: expected cached resource", name)
		}
		img, err := png.Decode(bytes.NewReader(first.Content()))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if bounds := img.Bounds(); bounds.Dx() != IconSize || bounds.Dy() != IconSize {
			t.Fatalf("%s: unexpected bounds %v", name, bounds)
		}
		if _, _, _, alpha := img.At(0, 0).RGBA(); alpha != 0 {
			t.Fatalf("%s: corner must be transparent", name)
		}
	}
	if _, err := Icon("missing"); err == nil {
		t.Fatalf("expected error for unknown icon")
	}
}
