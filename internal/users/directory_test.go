package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/db/dbtest"
)

func newDirectory(t *testing.T) *Directory {
	hash, err := bcrypt.GenerateFromPassword([]byte("root-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	d := NewDirectory(dbtest.Open(t), "admin", string(hash))
	d.Cost = bcrypt.MinCost
	return d
}

func TestAuthenticateAdmin(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	sub, role, err := d.Authenticate(ctx, "admin", "root-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.Equal(t, "admin", role)

	_, _, err = d.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestUpsertAndAuthenticate(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	ins, upd, err := d.Upsert(ctx, []User{
		{ID: "u1", Username: "priya", Role: "Analyst", Password: "pw1"},
		{Username: "sam", Password: "pw2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ins)
	assert.Equal(t, 0, upd)

	sub, role, err := d.Authenticate(ctx, "priya", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
	assert.Equal(t, "analyst", role)

	_, role, err = d.Authenticate(ctx, "sam", "pw2")
	require.NoError(t, err)
	assert.Equal(t, "viewer", role)

	_, upd, err = d.Upsert(ctx, []User{{ID: "u1", Username: "priya", Role: "viewer"}})
	require.NoError(t, err)
	assert.Equal(t, 1, upd)
	_, role, err = d.Authenticate(ctx, "priya", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "viewer", role, "password kept, role changed")

	list, err := d.List(ctx, "viewer")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, _, err = d.Authenticate(ctx, "nobody", "x")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestUpsertRejects(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	_, _, err := d.Upsert(ctx, []User{{Username: "x", Role: "student", Password: "p"}})
	assert.ErrorContains(t, err, "invalid role")

	_, _, err = d.Upsert(ctx, []User{{Username: "nopass"}})
	assert.ErrorContains(t, err, "password required")

	list, err := d.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
