package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Declaration/compiler layer.
	ErrValidation = "E_VALIDATION"
	ErrDuplicate  = "E_DUPLICATE"
	ErrLookupMiss = "E_LOOKUP_MISS"

	// Update path.
	ErrDomain       = "E_DOMAIN"
	ErrUnknownSpell = "E_UNKNOWN_SPELL"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrValidation:      {},
	ErrDuplicate:       {},
	ErrLookupMiss:      {},
	ErrDomain:          {},
	ErrUnknownSpell:    {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
