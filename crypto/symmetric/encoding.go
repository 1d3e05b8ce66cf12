package symmetric

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

// External representation of plaintext. Only governs how plaintext text maps to bytes; ciphertext and nonces are always hex.
type Encoding int

const (
	UTF8 Encoding = iota
	Hex
	Base64
)

var encodingNames = map[Encoding]string{
	UTF8:   "UTF8",
	Hex:    "HEX",
	Base64: "BASE64",
}

// Parses an encoding name, case-insensitively. Also accepts "utf-8" and the numeric forms "0", "1", "2".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToUpper(s) {
	case "UTF8", "UTF-8", "0":
		return UTF8, nil
	case "HEX", "1":
		return Hex, nil
	case "BASE64", "2":
		return Base64, nil
	}
	return 0, fmt.Errorf("%w: unknown plaintext encoding %q", crypto.ErrInvalidEncoding, s)
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

func (e Encoding) valid() bool {
	_, ok := encodingNames[e]
	return ok
}

// Converts plaintext text to raw bytes, failing with [crypto.ErrInvalidEncoding] if the text is not valid for the encoding.
func (e Encoding) Decode(text string) ([]byte, error) {
	switch e {
	case UTF8:
		if !utf8.ValidString(text) {
			return nil, fmt.Errorf("%w: plaintext is not valid UTF-8", crypto.ErrInvalidEncoding)
		}
		return []byte(text), nil
	case Hex:
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: plaintext is not hex: %w", crypto.ErrInvalidEncoding, err)
		}
		return b, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: plaintext is not base64: %w", crypto.ErrInvalidEncoding, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", crypto.ErrInvalidEncoding, e)
}

// Converts raw bytes back to text. Only UTF8 can fail, when the bytes are not valid UTF-8.
func (e Encoding) Encode(data []byte) (string, error) {
	switch e {
	case UTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: decrypted bytes are not valid UTF-8", crypto.ErrInvalidEncoding)
		}
		return string(data), nil
	case Hex:
		return hex.EncodeToString(data), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(data), nil
	}
	return "", fmt.Errorf("%w: %s", crypto.ErrInvalidEncoding, e)
}

func (e Encoding) MarshalText() ([]byte, error) {
	if !e.valid() {
		return nil, fmt.Errorf("%w: %s", crypto.ErrInvalidEncoding, e)
	}
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Accepts both the string names and bare JSON numbers.
func (e *Encoding) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Encoding(n).valid() {
			return fmt.Errorf("%w: unknown plaintext encoding %d", crypto.ErrInvalidEncoding, n)
		}
		*e = Encoding(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: encoding must be a string or number", crypto.ErrInvalidEncoding)
	}
	return e.UnmarshalText([]byte(s))
}
