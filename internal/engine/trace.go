package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TracingPresenter wraps another presenter and folds every command into
// a running sha256 chain. The replay tool compares the chained digest
// against the one recorded in the journal to verify that a replayed
// session produced the exact same command stream.
type TracingPresenter struct {
	Next Presenter // optional

	digest [32]byte
}

func (t *TracingPresenter) ShowOverlay(bucket string, ref OverlayRef, hint TransitionHint) {
	t.fold(fmt.Sprintf("SO|%s|%s|%s|%.3f|%v|%t|%t", bucket, ref.Texture, ref.Position, ref.Scale, ref.Color, ref.Pulse, hint.SuppressPulse))
	if t.Next != nil {
		t.Next.ShowOverlay(bucket, ref, hint)
	}
}

func (t *TracingPresenter) HideOverlay(bucket string, ref OverlayRef) {
	t.fold(fmt.Sprintf("HO|%s|%s|%s", bucket, ref.Texture, ref.Position))
	if t.Next != nil {
		t.Next.HideOverlay(bucket, ref)
	}
}

func (t *TracingPresenter) ShowButton(bucket string, ref ButtonRef, hint TransitionHint) {
	t.fold(fmt.Sprintf("SB|%s|%d|%t", bucket, ref.SpellID, hint.SuppressPulse))
	if t.Next != nil {
		t.Next.ShowButton(bucket, ref, hint)
	}
}

func (t *TracingPresenter) HideButton(bucket string, ref ButtonRef) {
	t.fold(fmt.Sprintf("HB|%s|%d", bucket, ref.SpellID))
	if t.Next != nil {
		t.Next.HideButton(bucket, ref)
	}
}

func (t *TracingPresenter) fold(cmd string) {
	h := sha256.New()
	h.Write(t.digest[:])
	h.Write([]byte(cmd))
	copy(t.digest[:], h.Sum(nil))
}

// Digest returns the hex chain digest over all commands so far.
func (t *TracingPresenter) Digest() string {
	return hex.EncodeToString(t.digest[:])
}
