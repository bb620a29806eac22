package engine

// TriggerGate tracks which dimensions a bucket expects and which have
// reported at least once. No display decision is acted on before every
// required dimension has been informed; this covers the cold start
// where e.g. talent data arrives late from the server.
type TriggerGate struct {
	required uint8
	informed uint8
}

// Require marks a dimension as expected. Idempotent.
func (g *TriggerGate) Require(d Dimension) {
	g.required |= 1 << d
}

// Inform marks a dimension as reported. Idempotent; a no-op for
// dimensions that were never required, so informed stays a subset of
// required.
func (g *TriggerGate) Inform(d Dimension) {
	g.informed |= g.required & (1 << d)
}

func (g *TriggerGate) Required(d Dimension) bool {
	return g.required&(1<<d) != 0
}

func (g *TriggerGate) FullyInformed() bool {
	return g.informed == g.required
}
