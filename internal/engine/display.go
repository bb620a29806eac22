package engine

// TransitionHint rides along with every show call. SuppressPulse asks
// the presenter to skip the entrance animation when the ability is
// already visibly active and only its variant changed.
type TransitionHint struct {
	SuppressPulse bool
}

// OverlayRef describes one overlay texture placement. The engine never
// draws; refs are opaque handles handed to the presenter.
type OverlayRef struct {
	Texture  string   `json:"texture"`
	Position string   `json:"position"`
	Scale    float64  `json:"scale"`
	Color    [3]uint8 `json:"color"`
	Pulse    bool     `json:"pulse"`
}

// ButtonRef identifies one action button to glow.
type ButtonRef struct {
	SpellID int32 `json:"spell_id"`
}

// Presenter is the external presentation layer. Calls are synchronous
// and must not call back into the engine.
type Presenter interface {
	ShowOverlay(bucket string, ref OverlayRef, hint TransitionHint)
	HideOverlay(bucket string, ref OverlayRef)
	ShowButton(bucket string, ref ButtonRef, hint TransitionHint)
	HideButton(bucket string, ref ButtonRef)
}

// Display groups the visual elements registered for one exact condition
// key of one bucket. It only sequences presenter calls; the elements
// themselves live on the other side of the Presenter boundary.
type Display struct {
	Key      Key
	Overlays []OverlayRef
	Buttons  []ButtonRef
}

func (d *Display) Show(p Presenter, bucket string, hint TransitionHint) {
	for _, o := range d.Overlays {
		p.ShowOverlay(bucket, o, hint)
	}
	for _, b := range d.Buttons {
		p.ShowButton(bucket, b, hint)
	}
}

func (d *Display) Hide(p Presenter, bucket string) {
	for _, o := range d.Overlays {
		p.HideOverlay(bucket, o)
	}
	for _, b := range d.Buttons {
		p.HideButton(bucket, b)
	}
}
