package did

import (
	"context"
	"fmt"
	"strings"

	"github.com/hippo-protocol/hippo-protocol/crypto"
)

// Minimal DID document: just enough to carry a single verification key.
type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	AlsoKnownAs        []string             `json:"alsoKnownAs,omitempty"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
}

type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Builds the document for a DID controlled by the given key.
func DocumentForKey(didstr string, pub *crypto.PublicKeyK256) *Document {
	return &Document{
		Context: []string{"https://www.w3.org/ns/did/v1", "https://w3id.org/security/multikey/v1"},
		ID:      didstr,
		VerificationMethod: []VerificationMethod{{
			ID:                 didstr + "#key-1",
			Type:               "Multikey",
			Controller:         didstr,
			PublicKeyMultibase: pub.Multibase(),
		}},
	}
}

// Returns the first verification key of the document.
func (d *Document) PublicKey() (*crypto.PublicKeyK256, error) {
	if len(d.VerificationMethod) == 0 {
		return nil, fmt.Errorf("DID document has no verification methods: %s", d.ID)
	}
	return crypto.ParsePublicMultibase(d.VerificationMethod[0].PublicKeyMultibase)
}

type Resolver interface {
	GetDocument(ctx context.Context, didstr string) (*Document, error)
}

// Resolves did:hp identifiers. These are self-certifying, so no I/O happens.
type HippoResolver struct{}

func (HippoResolver) GetDocument(ctx context.Context, didstr string) (*Document, error) {
	id, err := ParseID(didstr)
	if err != nil {
		return nil, err
	}
	pub, err := id.PublicKey()
	if err != nil {
		return nil, err
	}
	doc := DocumentForKey(id.String(), pub)
	doc.AlsoKnownAs = []string{pub.DIDKey()}
	return doc, nil
}

// Resolves did:key identifiers with K-256 keys.
type KeyResolver struct{}

func (KeyResolver) GetDocument(ctx context.Context, didstr string) (*Document, error) {
	pub, err := crypto.ParsePublicDIDKey(didstr)
	if err != nil {
		return nil, err
	}
	doc := DocumentForKey(didstr, pub)
	doc.AlsoKnownAs = []string{FromPublicKey(pub).String()}
	return doc, nil
}

type MultiResolver struct {
	handlers map[string]Resolver
}

func NewMultiResolver() *MultiResolver {
	return &MultiResolver{
		handlers: make(map[string]Resolver),
	}
}

// Resolver for both did:hp and did:key.
func DefaultResolver() *MultiResolver {
	mr := NewMultiResolver()
	mr.AddHandler(Method, HippoResolver{})
	mr.AddHandler("key", KeyResolver{})
	return mr
}

func (mr *MultiResolver) AddHandler(method string, res Resolver) {
	mr.handlers[method] = res
}

func (mr *MultiResolver) GetDocument(ctx context.Context, didstr string) (*Document, error) {
	parts := strings.SplitN(didstr, ":", 3)
	if len(parts) != 3 || parts[0] != "did" {
		return nil, fmt.Errorf("%w: not a DID: %q", ErrMalformedIdentifier, didstr)
	}
	method := parts[1]

	res, ok := mr.handlers[method]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported did method: %q", ErrMalformedIdentifier, method)
	}

	mrResolvedDidsTotal.WithLabelValues(method).Inc()
	return res.GetDocument(ctx, didstr)
}
