package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier checks ID tokens issued by the admin SSO realm.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// Issuer builds the Keycloak realm issuer URL.
func Issuer(baseURL, realm string) string {
	return strings.TrimRight(baseURL, "/") + "/realms/" + realm
}

// NewVerifier creates a new OIDC verifier for the given issuer and client ID
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewStaticVerifier builds a verifier from a fixed key set, without discovery.
func NewStaticVerifier(issuer, clientID string, keys oidc.KeySet) *Verifier {
	return &Verifier{verifier: oidc.NewVerifier(issuer, keys, &oidc.Config{ClientID: clientID})}
}

// Verify verifies the provided raw ID token and returns a middleware.Token
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
