package middleware

import (
	"net/http"

	"github.com/angelmondragon/propertyhub/api/responses"
	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
)

// sessionWriter persists the session right before the response header goes
// out, so handlers can mutate it (flashes, login, logout) up to that point.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Session loads the browser session referenced by the cookie and stores it on
// the request context.
func Session(manager *session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var cookieValue string
			if cookie, err := r.Cookie(manager.CookieName()); err == nil {
				cookieValue = cookie.Value
			}

			state, err := manager.Load(ctx, cookieValue)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session store unavailable"))
				return
			}

			sw := &sessionWriter{ResponseWriter: w}
			sw.commit = func() {
				token, err := manager.Save(ctx, state)
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "session.save_failed", err)
					}
					return
				}
				if token != "" {
					http.SetCookie(w, manager.Cookie(token))
				}
			}

			next.ServeHTTP(sw, r.WithContext(session.WithState(ctx, state)))
			sw.flush()
		})
	}
}
