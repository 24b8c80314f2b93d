package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergy-credit/scorenorm/internal/calibration"
	"github.com/synergy-credit/scorenorm/internal/db/dbtest"
)

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	store := NewSQLStore(dbtest.Open(t))

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Put(ctx, "u1", calibration.Selection{Origin: "IN", Dest: "US"})
	require.NoError(t, err)
	saved, err := store.Put(ctx, "u1", calibration.Selection{Origin: "GB", Dest: "CA"})
	require.NoError(t, err)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, calibration.Selection{Origin: "GB", Dest: "CA"}, got.Selection)
}
