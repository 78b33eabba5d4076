package service

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// RPCSignatureService implements ports.SignatureService for the Alibaba
// Cloud RPC signing contract: parameters are sorted, strictly
// percent-encoded, joined into a canonical query string, and the
// string-to-sign is HMAC-SHA1ed with the account secret suffixed by "&".
type RPCSignatureService struct{}

// NewRPCSignatureService creates a new RPC signature service.
func NewRPCSignatureService() *RPCSignatureService {
	return &RPCSignatureService{}
}

// percentEncode applies the vendor's strict variant of RFC 3986: space must
// become %20 (never +), '*' must become %2A, and '~' must stay bare.
// url.QueryEscape already escapes the remaining sub-delims the vendor cares
// about (!, ', parens), so it only needs those three corrections.
func percentEncode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	e = strings.ReplaceAll(e, "*", "%2A")
	e = strings.ReplaceAll(e, "%7E", "~")
	return e
}

// CanonicalQueryString sorts parameters by their percent-encoded key and
// joins them as k=v pairs with '&'. The result is the exact byte sequence
// the vendor reconstructs for signature verification.
func (s *RPCSignatureService) CanonicalQueryString(params map[string]string) string {
	encoded := make(map[string]string, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		ek := percentEncode(k)
		encoded[ek] = percentEncode(v)
		keys = append(keys, ek)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+encoded[k])
	}
	return strings.Join(pairs, "&")
}

// Sign computes the base64-encoded HMAC-SHA1 signature over
// METHOD&%2F&encode(canonicalQueryString), keyed with secret+"&".
func (s *RPCSignatureService) Sign(method string, params map[string]string, secret string) string {
	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(s.CanonicalQueryString(params))

	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
