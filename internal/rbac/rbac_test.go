package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has(RoleViewer, "settings:own"))
	assert.False(t, c.Has(RoleViewer, "anchors:write"))
	assert.True(t, c.Has(RoleAnalyst, "anchors:write"))
	assert.True(t, c.Has(RoleAnalyst, "anchors:import"))
	assert.False(t, c.Has(RoleAnalyst, "users:list"))
	assert.True(t, c.Has(RoleAdmin, "users:list"))
	assert.False(t, c.Has("ghost", "settings:own"))
	assert.True(t, c.Any(RoleViewer, "anchors:list", "settings:own"))
	assert.True(t, KnownRole(RoleAnalyst))
	assert.False(t, KnownRole("student"))
}

func TestRequire(t *testing.T) {
	h := Require("anchors:write")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for role, want := range map[string]int{
		"":          http.StatusForbidden,
		RoleViewer:  http.StatusForbidden,
		RoleAnalyst: http.StatusNoContent,
		RoleAdmin:   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}
