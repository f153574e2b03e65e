package key

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type identifies the key suite of a KeyPair.
type Type int

const (
	X25519KeyAgreementKey2019 Type = 0
)

// ErrUnknownType is returned when an unrecognized key type is encountered.
var ErrUnknownType = errors.New("unknown key type")

func (t Type) String() string {
	switch t {
	case X25519KeyAgreementKey2019:
		return "X25519KeyAgreementKey2019"
	default:
		return "Unknown"
	}
}

// ParseType returns the Type named by s.
func ParseType(s string) (Type, error) {
	switch s {
	case "X25519KeyAgreementKey2019":
		return X25519KeyAgreementKey2019, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unmarshaling key type: %w", err)
	}

	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

func (t Type) MarshalJSON() ([]byte, error) {
	if t != X25519KeyAgreementKey2019 {
		return nil, ErrUnknownType
	}
	return json.Marshal(t.String())
}
