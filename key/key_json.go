package key

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the public record only. Use Export to include the
// private key.
func (kp *KeyPair) MarshalJSON() ([]byte, error) {
	rec, err := kp.Export(ExportOptions{PublicKey: true})
	if err != nil {
		return nil, err
	}
	return json.Marshal(&rec)
}

func (kp *KeyPair) UnmarshalJSON(b []byte) error {
	parsed, err := UnmarshalRecord(b)
	if err != nil {
		return err
	}
	*kp = *parsed
	return nil
}

// UnmarshalRecord decodes a JSON record, including any private key, into a KeyPair.
func UnmarshalRecord(message json.RawMessage) (*KeyPair, error) {
	var rec Record
	if err := json.Unmarshal(message, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling key record JSON: %w", err)
	}
	return FromRecord(rec)
}
