package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present; ID is nil for an explicit null.
type NullableUUID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	n.Set = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.ID = nil
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.ID = &parsed
	return nil
}

// MarshalJSON renders the id or null.
func (n NullableUUID) MarshalJSON() ([]byte, error) {
	if n.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.ID.String())
}
