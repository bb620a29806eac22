package engine

import "testing"

func TestTriggerGate(t *testing.T) {
	var g TriggerGate
	if !g.FullyInformed() {
		t.Fatalf("empty gate must be fully informed")
	}

	g.Require(DimAuraStacks)
	g.Require(DimTalented)
	if g.FullyInformed() {
		t.Fatalf("gate with uninformed dimensions must be closed")
	}

	g.Inform(DimAuraStacks)
	if g.FullyInformed() {
		t.Fatalf("one of two informed must stay closed")
	}
	g.Inform(DimAuraStacks) // idempotent
	if g.FullyInformed() {
		t.Fatalf("repeat inform must not open the gate")
	}

	g.Inform(DimTalented)
	if !g.FullyInformed() {
		t.Fatalf("all required informed must open the gate")
	}
}

func TestTriggerGateInformNotRequired(t *testing.T) {
	var g TriggerGate
	g.Require(DimAuraStacks)
	g.Inform(DimResource) // not required: no-op
	if g.FullyInformed() {
		t.Fatalf("informing an unrequired dimension must not open the gate")
	}
	g.Inform(DimAuraStacks)
	if !g.FullyInformed() {
		t.Fatalf("gate should open")
	}
}
