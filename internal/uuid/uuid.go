// Package uuid generates random identifiers.
package uuid

import "github.com/google/uuid"

// URN returns a random (version 4) UUID in "urn:uuid:" form.
func URN() string {
	return uuid.New().URN()
}
