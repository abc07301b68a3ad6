// Package authz defines the authorization boundary the HTTP layer calls
// before returning a config archive. The supply chain itself never sees
// authorization concerns.
package authz

import (
	"context"
	"net/http"
)

// Authorizer decides whether an inbound request may proceed. Implementations
// typically validate a bearer JWT against Authorization.{Issuers, Audience,
// JwksUri} from the configuration document.
type Authorizer interface {
	Authorize(ctx context.Context, r *http.Request) error
}

// AllowAll is the default Authorizer: every request is permitted. No JWT or
// JWKS validation library is available in this service's dependency stack,
// so production deployments are expected to supply their own Authorizer
// implementation behind this interface; AllowAll exists so the service is
// runnable standalone and in tests.
type AllowAll struct{}

func (AllowAll) Authorize(context.Context, *http.Request) error {
	return nil
}
