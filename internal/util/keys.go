package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Prefixer namespaces logical keys so several fetchers can share one store.
type Prefixer struct {
	Prefix string
}

// WithPrefix returns Prefix+key. An empty prefix leaves the key untouched.
func (p Prefixer) WithPrefix(key string) string {
	return p.Prefix + key
}

// HashKey returns a deterministic key for an arbitrary request value:
// the first 16 hex chars of sha256 over its JSON form. Values that cannot
// be marshaled fall back to their %#v representation.
func HashKey(req any) string {
	b, err := json.Marshal(req)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", req))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Describe renders a short human readable request tag used by request-scoped
// loggers: prefix + key[:6] + "(" + json(req)[:12] + ")".
func Describe(prefix, key string, req any) string {
	var js string
	if b, err := json.Marshal(req); err == nil {
		js = string(b)
	}
	return prefix + clip(key, 6) + "(" + clip(js, 12) + ")"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
