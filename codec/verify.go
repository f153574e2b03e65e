package codec

import (
	"crypto/subtle"
	"fmt"
)

// VerifyResult reports the outcome of VerifyFingerprint. Err is nil when
// Valid is true and otherwise matches one of ErrNotMultibaseEncoded,
// ErrDecodeFailed or ErrFingerprintMismatch.
type VerifyResult struct {
	Valid bool
	Err   error
}

// VerifyFingerprint checks that fingerprint encodes publicKey.
func VerifyFingerprint(publicKey []byte, fingerprint string) VerifyResult {
	if len(fingerprint) == 0 || fingerprint[0] != MultibasePrefix {
		return VerifyResult{Err: ErrNotMultibaseEncoded}
	}

	decoded, err := DecodeFingerprint(fingerprint)
	if err != nil {
		return VerifyResult{Err: fmt.Errorf("%w: %w", ErrDecodeFailed, err)}
	}

	if len(decoded) != len(publicKey) || subtle.ConstantTimeCompare(decoded, publicKey) != 1 {
		return VerifyResult{Err: ErrFingerprintMismatch}
	}
	return VerifyResult{Valid: true}
}
