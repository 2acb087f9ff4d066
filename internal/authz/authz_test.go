package authz

import (
	"context"
	"testing"

	"github.com/referee-assignment/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowAll(t *testing.T) {
	a := FromConfig(&config.AuthzConfig{Mode: "allow_all"})

	allowed, err := a.Authorize(context.Background(),
		Principal{UserID: "u1", OrgID: "org-1"},
		ActionAssignmentCreate,
		Resource{Type: "game", OrgID: "org-2"},
	)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestOrgMatch(t *testing.T) {
	a := FromConfig(&config.AuthzConfig{Mode: "org_match"})

	allowed, err := a.Authorize(context.Background(),
		Principal{UserID: "u1", OrgID: "org-1"},
		ActionAssignmentCreate,
		Resource{Type: "game", OrgID: "org-2"},
	)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = a.Authorize(context.Background(),
		Principal{UserID: "u1", OrgID: "org-1"},
		ActionAssignmentCreate,
		Resource{Type: "game", OrgID: "org-1"},
	)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Resources without an org are open
	allowed, err = a.Authorize(context.Background(),
		Principal{UserID: "u1", OrgID: "org-1"},
		ActionGameDelete,
		Resource{Type: "game"},
	)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDeniedActions(t *testing.T) {
	a := FromConfig(&config.AuthzConfig{
		Mode:          "allow_all",
		DeniedActions: []string{ActionGameDelete},
	})

	allowed, err := a.Authorize(context.Background(), Principal{}, ActionGameDelete, Resource{})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = a.Authorize(context.Background(), Principal{}, ActionGameLifecycle, Resource{})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", OrgID: "org-1"})
	got := PrincipalFromContext(ctx)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "org-1", got.OrgID)

	// Missing principal yields the zero value
	assert.Equal(t, Principal{}, PrincipalFromContext(context.Background()))
}
