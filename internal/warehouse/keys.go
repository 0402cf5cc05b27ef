package warehouse

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Surrogate keys are a pure function of the natural key, so re-loading the
// same entity always lands on the same key and facts from separate loads
// stay joinable.

// nullComponent stands in for absent natural-key components. It is not the
// empty string: "absent" and "present but empty" hash to different keys.
const nullComponent = "__NULL__"

// keySeparator joins multi-part natural keys before hashing. Natural keys in
// this domain (tool names, model names, uuids, paths) never contain it.
const keySeparator = "|"

// DimensionKey derives a 32-character hex surrogate key from one or more
// natural-key components. Nil components are replaced with a fixed sentinel,
// so the function is total and deterministic over nullable inputs.
func DimensionKey(parts ...*string) string {
	components := make([]string, len(parts))
	for i, p := range parts {
		if p == nil {
			components[i] = nullComponent
		} else {
			components[i] = *p
		}
	}
	sum := md5.Sum([]byte(strings.Join(components, keySeparator)))
	return hex.EncodeToString(sum[:])
}

// Key is the non-nullable convenience form of DimensionKey.
func Key(parts ...string) string {
	pointers := make([]*string, len(parts))
	for i := range parts {
		pointers[i] = &parts[i]
	}
	return DimensionKey(pointers...)
}
