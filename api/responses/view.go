package responses

import (
	"net/http"
	"net/url"

	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/logger"
	"github.com/angelmondragon/propertyhub/pkg/types"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"

	MsgLoginRequired = "Please log in to access this page."
	MsgNoPermission  = "You do not have permission to access this page."
)

// Render writes a page view and consumes the pending flashes of the session.
func Render(w http.ResponseWriter, r *http.Request, status int, template string, values any) {
	var flashes []session.Flash
	if st, ok := session.FromContext(r.Context()); ok {
		flashes = st.DrainFlashes()
	}
	if flashes == nil {
		flashes = []session.Flash{}
	}
	WriteSuccessStatus(w, status, types.View{
		Template: template,
		Values:   values,
		Flashes:  flashes,
	})
}

// Flash queues a message on the request's session. Without a session it is dropped.
func Flash(r *http.Request, severity enums.Severity, message string) {
	if st, ok := session.FromContext(r.Context()); ok {
		st.AddFlash(severity, message)
	}
}

// Redirect issues a 303 so the browser follows with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectWithFlash queues a flash and redirects.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, target string, severity enums.Severity, message string) {
	Flash(r, severity, message)
	Redirect(w, r, target)
}

// RedirectToLogin sends the visitor to the login page, remembering where they
// were headed.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet && r.URL.Path != "" {
		target += "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
	}
	RedirectWithFlash(w, r, target, enums.SeverityInfo, MsgLoginRequired)
}

// Fail maps a service error onto the browser flow. Missing records produce a
// 404 body; permission failures go back to the dashboard; rejected input goes
// back to fallback with the message flashed.
func Fail(logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error, fallback string) {
	typed := pkgerrors.As(err)
	if typed == nil {
		WriteError(r.Context(), logg, w, err)
		return
	}

	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		WriteError(r.Context(), logg, w, err)
	case pkgerrors.CodeUnauthorized:
		RedirectToLogin(w, r)
	case pkgerrors.CodeForbidden:
		msg := typed.Message()
		if msg == "" {
			msg = MsgNoPermission
		}
		RedirectWithFlash(w, r, DashboardPath, enums.SeverityDanger, msg)
	case pkgerrors.CodeValidation, pkgerrors.CodeConflict, pkgerrors.CodeRateLimit:
		if fallback == "" {
			fallback = DashboardPath
		}
		RedirectWithFlash(w, r, fallback, enums.SeverityDanger, typed.Message())
	default:
		WriteError(r.Context(), logg, w, err)
	}
}
