package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// HashSnapshot returns a stable identifier for a user input plus signal
// snapshot. Signals are folded in sorted key order so two byte-identical
// situations always hash the same regardless of map iteration.
func HashSnapshot(userInput string, signals map[string]json.RawMessage) string {
	keys := make([]string, 0, len(signals))
	for k := range signals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(userInput)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte(0)
		b.Write(signals[k])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
