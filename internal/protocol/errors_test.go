package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{
		ErrProtoBadRequest, ErrValidation, ErrDuplicate,
		ErrLookupMiss, ErrDomain, ErrUnknownSpell, ErrInternal,
	} {
		if !IsKnownCode(code) {
			t.Fatalf("%s must be known", code)
		}
	}
	// Empty means accepted, which is always fine on the wire.
	if !IsKnownCode("") {
		t.Fatalf("empty code must pass")
	}
	if IsKnownCode("E_MADE_UP") {
		t.Fatalf("unknown code must fail")
	}
}
