// Package auth implements HTTP Basic authentication against stored bcrypt
// hashes and the ownership policy for course mutation.
package auth

import (
	"encoding/base64"
	"strings"
)

const basicScheme = "basic"

// Credential is the name/secret pair carried by one request. It is never
// persisted.
type Credential struct {
	Name   string
	Secret string
}

// ParseBasic extracts credentials from an Authorization header value.
//
// A missing or malformed header (wrong scheme, bad base64, no colon in the
// decoded payload) yields ok == false; that is a normal outcome, not an
// error. The payload is split on the first colon only, so secrets may
// themselves contain colons.
func ParseBasic(header string) (Credential, bool) {
	scheme, encoded, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, basicScheme) {
		return Credential{}, false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Credential{}, false
	}

	name, secret, found := strings.Cut(string(decoded), ":")
	if !found {
		return Credential{}, false
	}
	return Credential{Name: name, Secret: secret}, true
}

// BasicHeader renders credentials as an Authorization header value.
func BasicHeader(name, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(name+":"+secret))
}
