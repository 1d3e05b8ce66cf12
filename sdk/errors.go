package sdk

import (
	"errors"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/did"
)

// Error category reported across the string boundary.
type Kind string

const (
	KindMalformedKey          Kind = "MalformedKey"
	KindMalformedIdentifier   Kind = "MalformedIdentifier"
	KindMalformedInput        Kind = "MalformedInput"
	KindInvalidEncoding       Kind = "InvalidEncoding"
	KindInvalidKeyLength      Kind = "InvalidKeyLength"
	KindAuthenticationFailure Kind = "AuthenticationFailure"
	KindInternal              Kind = "Internal"
)

// Maps an error returned by this package onto its [Kind]. Returns the empty string for nil.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, did.ErrMalformedIdentifier):
		return KindMalformedIdentifier
	case errors.Is(err, crypto.ErrMalformedKey):
		return KindMalformedKey
	case errors.Is(err, crypto.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, crypto.ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, crypto.ErrInvalidKeyLength):
		return KindInvalidKeyLength
	case errors.Is(err, crypto.ErrAuthenticationFailure):
		return KindAuthenticationFailure
	}
	return KindInternal
}
