// file: internals/helpers/data_hash.go
package helper

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// DataHash digests a response payload so clients can cheaply detect whether
// anything changed since their last poll. Map keys are marshaled in sorted
// order, which keeps the digest stable across requests.
func DataHash(payload interface{}) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
