// Package authz is the boundary to the attribute-based authorization
// collaborator. The engine supplies resource attributes and receives an
// allow/deny; the decision logic itself lives outside this service.
package authz

import (
	"context"
	"slices"

	"github.com/referee-assignment/internal/config"
)

// Actions the engine asks decisions for
const (
	ActionAssignmentCreate = "assignment:create"
	ActionAssignmentUpdate = "assignment:update"
	ActionAssignmentRemove = "assignment:remove"
	ActionGameLifecycle    = "game:lifecycle"
	ActionGameDelete       = "game:delete"
	ActionRefereeDelete    = "referee:delete"
)

// Principal is the authenticated caller, produced by the identity
// collaborator upstream of this service
type Principal struct {
	UserID   string
	OrgID    string
	RegionID string
}

// Resource carries the attributes of the record being acted on
type Resource struct {
	Type      string
	ID        string
	OrgID     string
	RegionID  string
	CreatorID string
	Status    string
}

// Authorizer returns an allow/deny for a principal acting on a resource
type Authorizer interface {
	Authorize(ctx context.Context, p Principal, action string, res Resource) (bool, error)
}

// StaticAuthorizer is a config-driven decider used when no external policy
// decision point is wired up
type StaticAuthorizer struct {
	orgMatch bool
	denied   []string
}

// FromConfig builds a StaticAuthorizer from the authz configuration
func FromConfig(cfg *config.AuthzConfig) *StaticAuthorizer {
	return &StaticAuthorizer{
		orgMatch: cfg.Mode == "org_match",
		denied:   cfg.DeniedActions,
	}
}

// Authorize applies the configured static policy
func (a *StaticAuthorizer) Authorize(_ context.Context, p Principal, action string, res Resource) (bool, error) {
	if slices.Contains(a.denied, action) {
		return false, nil
	}
	if a.orgMatch && res.OrgID != "" && p.OrgID != res.OrgID {
		return false, nil
	}
	return true, nil
}

type contextKey struct{}

// WithPrincipal stores the principal on the request context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext extracts the principal set by the transport layer
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(contextKey{}).(Principal)
	return p
}
