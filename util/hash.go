package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// EntityID creates a deterministic hash for an entity based on its declaring
// file and declared name. (file, name) is unique within a workspace, so the
// id is stable across runs regardless of parse order.
func EntityID(file, name string) string {
	input := fmt.Sprintf("%s:%s", file, name)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
