package domain

// TeamSlotCount is the fixed roster size.
const TeamSlotCount = 5

// TeamSlot is one row of user_team_slots. PokemonBankID is nil for an
// empty slot.
type TeamSlot struct {
	UserID        string `json:"user_id"`
	Slot          int    `json:"slot"`
	PokemonBankID *int64 `json:"pokemon_banco_id"`
}

// TeamSlotView is a slot joined with its bank entry for display.
type TeamSlotView struct {
	Slot    int        `json:"slot"`
	Pokemon *BankEntry `json:"pokemon,omitempty"`
}

// SwapSlotsRequest asks for the contents of two slots to be exchanged.
type SwapSlotsRequest struct {
	SlotA int `json:"slot_a"`
	SlotB int `json:"slot_b"`
}

// SetSlotRequest assigns a bank entry to a slot; nil clears it.
type SetSlotRequest struct {
	PokemonBankID *int64 `json:"pokemon_banco_id"`
}

// ValidSlot reports whether slot is within the fixed 1..TeamSlotCount range.
func ValidSlot(slot int) bool {
	return slot >= 1 && slot <= TeamSlotCount
}
