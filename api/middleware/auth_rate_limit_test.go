package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/propertyhub/pkg/auth/session"
	"github.com/angelmondragon/propertyhub/pkg/redis"
)

func loginRequest(email, ip string) *http.Request {
	form := url.Values{"email": {email}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = ip + ":5678"
	return req.WithContext(session.WithState(req.Context(), &session.State{ID: "sid"}))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimit_AllowsUnderLimitAndKeepsForm(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, redis.NewMemory(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("email") != "tester@example.com" {
			t.Fatalf("form values lost: %v", r.PostForm)
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("tester@example.com", "1.2.3.4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimit_EmailLimitTriggers(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, redis.NewMemory(), nil)(okHandler())

	for i := 0; i < 3; i++ {
		req := loginRequest("Blocked@Example.com", "1.2.3."+string(rune('1'+i)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("expected success before limit, got %d", rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected redirect once limited, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Fatalf("expected redirect back to the form, got %s", loc)
		}
		st, _ := session.FromContext(req.Context())
		flashes := st.DrainFlashes()
		if len(flashes) != 1 || flashes[0].Message != rateLimitedMessage {
			t.Fatalf("unexpected flashes %+v", flashes)
		}
	}
}

func TestAuthRateLimit_IPLimitTriggers(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, redis.NewMemory(), nil)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("user"+string(rune('a'+i))+"@example.com", "5.6.7.8"))
		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected success, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusSeeOther {
			t.Fatalf("expected limited redirect, got %d", rec.Code)
		}
	}
}

func TestAuthRateLimit_IgnoresPageLoads(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, redis.NewMemory(), nil)(okHandler())
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET should never be limited, got %d", rec.Code)
		}
	}
}

type failingRateStore struct{}

func (failingRateStore) IncrWithTTL(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func (failingRateStore) RateLimitKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func TestAuthRateLimit_StoreFailure(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, failingRateStore{}, nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("a@example.com", "9.9.9.9"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 1, 1), failingRateStore{}, nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("a@example.com", "9.9.9.9"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestClientIPIgnoresForwardingHeadersByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Real-IP", "10.0.0.2")
	req.Header.Set("X-Forwarded-For", "10.0.0.3")
	if got := clientIP(req, false); got != "10.0.0.1" {
		t.Fatalf("unexpected ip %s", got)
	}
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := clientIP(req, true); got != "10.0.0.1" {
		t.Fatalf("unexpected ip %s", got)
	}
	req.Header.Set("X-Forwarded-For", " 1.2.3.4, 10.0.0.4 ")
	if got := clientIP(req, true); got != "10.0.0.4" {
		t.Fatalf("unexpected ip %s", got)
	}
	req.Header.Set("X-Real-IP", "10.0.0.2")
	if got := clientIP(req, true); got != "10.0.0.2" {
		t.Fatalf("unexpected ip %s", got)
	}
}

func TestAuthRateLimit_SpoofedForwardedForSharesPeerCounter(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, redis.NewMemory(), nil)(okHandler())

	first := loginRequest("a@example.com", "9.9.9.9")
	first.Header.Set("X-Forwarded-For", "1.1.1.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first attempt to pass, got %d", rec.Code)
	}

	second := loginRequest("b@example.com", "9.9.9.9")
	second.Header.Set("X-Forwarded-For", "2.2.2.2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected spoofed header to be ignored, got %d", rec.Code)
	}
}
