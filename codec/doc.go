// Package codec implements the multicodec/multibase fingerprint used to
// identify X25519 key-agreement keys, along with the base58 and multibase
// helpers shared by the key and convert packages.
//
// A fingerprint is the ASCII character 'z' (multibase base58-btc) followed by
// the base58 encoding of the two-byte varint multicodec header for
// x25519-pub (0xec 0x01) and the 32 raw public key bytes:
//
//	z + base58(0xec 0x01 || publicKey)
//
// VerifyFingerprint checks a claimed fingerprint against raw public key
// bytes without returning an error value, so it can be used when
// validating many documents at once.
package codec
