package offers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/kavak/tradeup/internal/domain"
)

// lastUpdatedKey is a host bookkeeping field added when a configuration is
// persisted. It never participates in the hash.
const lastUpdatedKey = "last_updated"

// CanonicalConfigJSON renders an engine configuration in canonical form:
// object keys sorted, floats formatted with %.10g so numerically identical
// configurations serialize identically, and last_updated stripped. This is
// the exact form the config hash digests and the config store persists.
func CanonicalConfigJSON(cfg domain.EngineConfig) ([]byte, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return canonicalizeJSON(raw)
}

// ConfigHash returns the canonical SHA-256 hex digest of a configuration.
func ConfigHash(cfg domain.EngineConfig) (string, error) {
	canonical, err := CanonicalConfigJSON(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CacheKey builds the offer-cache key for a (customer, config) pair.
func CacheKey(customerID string, configHash string) string {
	return customerID + ":" + configHash
}

// canonicalizeJSON re-renders arbitrary JSON with sorted keys and fixed float
// precision. json.Number preserves the source digits so canonical formatting
// is applied once, here.
func canonicalizeJSON(raw []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}
	if obj, ok := value.(map[string]any); ok {
		delete(obj, lastUpdatedKey)
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			if err := writeCanonical(buf, v[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fmt.Errorf("non-numeric json.Number %q: %w", v.String(), err)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', 10, 64))
	case string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported JSON value %T", value)
	}
	return nil
}
