package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
)

// Sign returns the hex HMAC-SHA512 of the canonical form of params.
func Sign(params map[string]string, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(Canonical(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over params minus the hash fields and
// compares it with the supplied vnp_SecureHash in constant time.
func Verify(params map[string]string, secret string) bool {
	supplied := strings.ToLower(strings.TrimSpace(params[ParamSecureHash]))
	if supplied == "" || secret == "" {
		return false
	}

	unsigned := make(map[string]string, len(params))
	for k, v := range params {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		unsigned[k] = v
	}

	expected := Sign(unsigned, secret)
	return hmac.Equal([]byte(expected), []byte(supplied))
}

// Canonical sorts keys lexicographically and joins form-encoded k=v pairs
// with '&'. Spaces encode as '+'.
func Canonical(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// FromValues flattens query values to their first element.
func FromValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
