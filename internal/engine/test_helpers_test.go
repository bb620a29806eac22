package engine

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
)

type fakePresenter struct {
	calls []string
}

func (f *fakePresenter) ShowOverlay(bucket string, ref OverlayRef, hint TransitionHint) {
	f.calls = append(f.calls, fmt.Sprintf("show_overlay %s %s suppress=%t", bucket, ref.Texture, hint.SuppressPulse))
}

func (f *fakePresenter) HideOverlay(bucket string, ref OverlayRef) {
	f.calls = append(f.calls, fmt.Sprintf("hide_overlay %s %s", bucket, ref.Texture))
}

func (f *fakePresenter) ShowButton(bucket string, ref ButtonRef, hint TransitionHint) {
	f.calls = append(f.calls, fmt.Sprintf("show_button %s %d suppress=%t", bucket, ref.SpellID, hint.SuppressPulse))
}

func (f *fakePresenter) HideButton(bucket string, ref ButtonRef) {
	f.calls = append(f.calls, fmt.Sprintf("hide_button %s %d", bucket, ref.SpellID))
}

func (f *fakePresenter) reset() { f.calls = nil }

func (f *fakePresenter) expect(t *testing.T, want ...string) {
	t.Helper()
	if len(f.calls) != len(want) {
		t.Fatalf("presenter calls mismatch:\n got %v\nwant %v", f.calls, want)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Fatalf("call %d mismatch:\n got %v\nwant %v", i, f.calls, want)
		}
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustKey(t *testing.T, dims map[Dimension]int) Key {
	t.Helper()
	var k Key
	for d, v := range dims {
		if err := k.Set(d, v); err != nil {
			t.Fatalf("Set(%s, %d): %v", d, v, err)
		}
	}
	return k
}

func overlayDisplay(texture string) *Display {
	return &Display{Overlays: []OverlayRef{{Texture: texture, Position: "center", Scale: 1, Color: [3]uint8{255, 255, 255}, Pulse: true}}}
}
