package util

import "github.com/mr-tron/base58"

func Base58Encode(b []byte) string {
	return base58.Encode(b)
}

func Base58Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}
