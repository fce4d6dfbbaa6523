// Package canonical produces deterministic fingerprints of
// decision-relevant record data. Serialization is stable by
// construction: keys sorted lexicographically, UTF-8, no insignificant
// whitespace, nil values omitted entirely so optional-field presence
// never shifts the byte sequence.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// Marshal serializes the value tree canonically. Supported leaf types
// are strings, numbers and bools; anything else goes through
// encoding/json as a last resort.
func Marshal(v map[string]any) []byte {
	return appendValue(nil, v)
}

// Hash is the SHA-256 hex digest of the canonical serialization.
func Hash(v map[string]any) string {
	sum := sha256.Sum256(Marshal(v))
	return hex.EncodeToString(sum[:])
}

// HashString is the SHA-256 hex digest of the raw string bytes.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Combine fingerprints a pair of digests. Used when a record carries
// both a data hash and a claim hash.
func Combine(dataHash, claimHash string) string {
	return HashString(dataHash + claimHash)
}

func appendValue(buf []byte, v any) []byte {
	switch t := v.(type) {
	case string:
		return appendJSON(buf, t)
	case float64:
		return strconv.AppendFloat(buf, t, 'f', -1, 64)
	case int:
		return strconv.AppendInt(buf, int64(t), 10)
	case bool:
		return strconv.AppendBool(buf, t)
	case []string:
		buf = append(buf, '[')
		for i, e := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendJSON(buf, e)
		}
		return append(buf, ']')
	case []any:
		buf = append(buf, '[')
		for i, e := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, e)
		}
		return append(buf, ']')
	case map[string]any:
		return appendObject(buf, t)
	default:
		return appendJSON(buf, t)
	}
}

func appendObject(buf []byte, m map[string]any) []byte {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendJSON(buf, k)
		buf = append(buf, ':')
		buf = appendValue(buf, m[k])
	}
	return append(buf, '}')
}

func appendJSON(buf []byte, v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return append(buf, "null"...)
	}
	return append(buf, b...)
}
