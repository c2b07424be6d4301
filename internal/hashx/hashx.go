// Package hashx derives short public link identifiers from opaque upstream
// file references.
package hashx

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of lowercase hex characters in a derived
// identifier. 12 characters carry 48 bits, which keeps URLs short while
// making collisions negligible for the single-process link volumes this
// service handles. Registration is idempotent per reference, so re-deriving
// the same id for the same reference is harmless.
const IDLength = 12

// Derive maps an upstream file reference to its public identifier. Pure and
// deterministic: equal references always produce equal identifiers.
func Derive(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])[:IDLength]
}
