package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	GameVersion     string `json:"game_version"` // "era", "wrath", "cata"
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	GameVersion     string         `json:"game_version"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

// CatalogDigests lets the client detect stale effect packs or metadata.
type CatalogDigests struct {
	SpellsDigest  string `json:"spells_digest"`
	TalentsDigest string `json:"talents_digest"`
	EffectsDigest string `json:"effects_digest"`
}

// EVENT (client -> server): one game-state signal. Fields beyond Kind
// are populated per kind; unused fields are omitted.
type EventMsg struct {
	Type string `json:"type"`
	Kind string `json:"kind"`

	// AURA / USABLE / TALENT: the spell the signal is about. SpellName
	// carries the display name on the legacy version where ids resolve
	// only at event time.
	SpellID   int32  `json:"spell_id,omitempty"`
	SpellName string `json:"spell_name,omitempty"`

	// AURA: -1 absent, 0 present with irrelevant count, 1..99 exact.
	Stacks int `json:"stacks,omitempty"`

	// USABLE / TALENT
	Enabled bool `json:"enabled,omitempty"`

	// RESOURCE
	Count int `json:"count,omitempty"`

	// COMBAT
	InCombat bool `json:"in_combat,omitempty"`
}

// DISPLAY (server -> client): one show/hide command.
type DisplayMsg struct {
	Type   string `json:"type"`
	Bucket string `json:"bucket"`
	Action string `json:"action"`

	Overlay *OverlayPayload `json:"overlay,omitempty"`
	Button  *ButtonPayload  `json:"button,omitempty"`

	SuppressPulse bool `json:"suppress_pulse,omitempty"`
}

type OverlayPayload struct {
	Texture  string   `json:"texture"`
	Position string   `json:"position"`
	Scale    float64  `json:"scale"`
	Color    [3]uint8 `json:"color"`
	Pulse    bool     `json:"pulse"`
}

type ButtonPayload struct {
	SpellID int32 `json:"spell_id"`
}

// ACK (server -> client): outcome for a message that was rejected or
// degraded. Accepted events are not acked.
type AckMsg struct {
	Type    string `json:"type"`
	AckFor  string `json:"ack_for"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
