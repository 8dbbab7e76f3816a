package booking

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// CookieName is the cookie the booking draft is stored under.
const CookieName = "booking_data"

// ErrBadCookie is returned when a cookie value is malformed or its
// signature does not verify.  Callers treat this the same as an
// absent cookie and start from an empty draft.
var ErrBadCookie = errors.New("invalid booking cookie")

// Codec signs and verifies booking drafts for cookie transport.  The
// value format is base64url(JSON) + "." + base64url(HMAC-SHA256), so
// a client can read its own draft but cannot alter it undetected.
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec from the booking cookie secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode serializes and signs a draft for Set-Cookie.
func (c *Codec) Encode(d Draft) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + c.sign(body), nil
}

// Decode verifies a cookie value and returns the draft it carries.
func (c *Codec) Decode(value string) (Draft, error) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return Draft{}, ErrBadCookie
	}
	if !hmac.Equal([]byte(c.sign(body)), []byte(sig)) {
		return Draft{}, ErrBadCookie
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Draft{}, ErrBadCookie
	}
	var d Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return Draft{}, ErrBadCookie
	}
	return d, nil
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
