package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/angelmondragon/propertyhub/api/middleware"
	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func testActor(caps ...enums.Capability) rbac.Actor {
	return rbac.Actor{
		UserID:    7,
		CompanyID: 3,
		Name:      "Jane",
		Email:     "jane@example.com",
		Role:      rbac.NewRole("Tester", caps...),
	}
}

func adminTestActor() rbac.Actor {
	actor := testActor(enums.Capabilities()...)
	actor.Role = rbac.NewRole("Admin", enums.Capabilities()...)
	return actor
}

// serve routes a single request through a chi router so URL params resolve,
// with the given actor and a fresh session on the context.
func serve(t *testing.T, method, pattern, target string, form url.Values, actor *rbac.Actor, h http.HandlerFunc) (*httptest.ResponseRecorder, *session.State) {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	st := &session.State{ID: "test"}
	ctx := session.WithState(req.Context(), st)
	if actor != nil {
		ctx = middleware.WithActor(ctx, *actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req.WithContext(ctx))
	return w, st
}

func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, location, w.Header().Get("Location"))
}

func requireFlash(t *testing.T, st *session.State, severity enums.Severity, message string) {
	t.Helper()
	flashes := st.DrainFlashes()
	for _, f := range flashes {
		if f.Severity == severity && f.Message == message {
			return
		}
	}
	t.Fatalf("flash %s %q not found in %+v", severity, message, flashes)
}

type stubRotator struct {
	calls int
	err   error
}

func (s *stubRotator) Rotate(context.Context, *session.State) error {
	s.calls++
	return s.err
}
