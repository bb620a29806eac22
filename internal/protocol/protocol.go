// Package protocol defines the wire messages exchanged between the
// in-game addon client and the overlay engine server. JSON over a
// single websocket; one message per frame.
package protocol

const Version = "1.0"

// Message type tags.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeEvent   = "EVENT"
	TypeDisplay = "DISPLAY"
	TypeAck     = "ACK"
)

// Event kinds pushed by the client.
const (
	EventAura     = "AURA"
	EventUsable   = "USABLE"
	EventTalent   = "TALENT"
	EventResource = "RESOURCE"
	EventCombat   = "COMBAT"
	EventReady    = "READY"
)

// Display actions emitted by the server.
const (
	ActionShowOverlay = "SHOW_OVERLAY"
	ActionHideOverlay = "HIDE_OVERLAY"
	ActionShowButton  = "SHOW_BUTTON"
	ActionHideButton  = "HIDE_BUTTON"
)
