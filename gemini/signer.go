package gemini

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Signer builds the header set Gemini's private endpoints authenticate
// by: a base64-encoded JSON payload carrying the request path and a
// nonce, signed with HMAC-SHA384 under the account secret.
type Signer struct {
	apiKey    string
	apiSecret string

	mu        sync.Mutex
	lastNonce int64
}

func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// Headers signs the request path together with any extra payload
// fields. Each call consumes a fresh, strictly increasing nonce. The
// caller's payload map is left untouched.
func (s *Signer) Headers(request string, payload map[string]interface{}) (http.Header, error) {
	signed := make(map[string]interface{}, len(payload)+2)
	for key, value := range payload {
		signed[key] = value
	}
	signed["request"] = request
	signed["nonce"] = s.nonce()

	body, err := json.Marshal(signed)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(body)
	mac := hmac.New(sha512.New384, []byte(s.apiSecret))
	mac.Write([]byte(encoded))
	signature := hex.EncodeToString(mac.Sum(nil))

	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	header.Set("Content-Length", "0")
	header.Set("X-GEMINI-APIKEY", s.apiKey)
	header.Set("X-GEMINI-PAYLOAD", encoded)
	header.Set("X-GEMINI-SIGNATURE", signature)
	header.Set("Cache-Control", "no-cache")
	return header, nil
}

// nonce is wall-clock milliseconds, bumped when two signatures land in
// the same millisecond so the sequence stays strictly increasing.
func (s *Signer) nonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := time.Now().UnixMilli()
	if n <= s.lastNonce {
		n = s.lastNonce + 1
	}
	s.lastNonce = n
	return n
}
