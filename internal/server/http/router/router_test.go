package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/polkiloo/secondfamilies/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/secondfamilies/internal/test"
	"github.com/polkiloo/secondfamilies/internal/usecase"
	"github.com/polkiloo/secondfamilies/web"
)

func newTestEngine(t *testing.T, facade handlers.CharityFacade) http.Handler {
	t.Helper()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, tmpl, logger, Options{})
}

func serve(engine http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	engine := newTestEngine(t, testhelpers.CharityFacadeStub{})

	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected home page, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), "secondfamilies_session=") {
		t.Fatalf("expected visitor session cookie, got %q", resp.Header().Get("Set-Cookie"))
	}

	for _, path := range []string{"/donate", "/donate/goods", "/account/register", "/account/login", "/account/forgot-password"} {
		if resp := serve(engine, httptest.NewRequest(http.MethodGet, path, nil)); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}

	if resp := serve(engine, httptest.NewRequest(http.MethodGet, "/healthz", nil)); resp.Code != http.StatusOK {
		t.Fatalf("expected healthy probe, got %d", resp.Code)
	}

	missing := "/" + testhelpers.RandomString(12)
	if resp := serve(engine, httptest.NewRequest(http.MethodGet, missing, nil)); resp.Code != http.StatusNotFound {
		t.Fatalf("%s: expected 404, got %d", missing, resp.Code)
	}
}

func TestSuccessPageRequiresSignIn(t *testing.T) {
	confirmed := ""
	facade := testhelpers.CharityFacadeStub{DonationFacadeStub: testhelpers.DonationFacadeStub{
		ConfirmFn: func(_ context.Context, sessionID string) (bool, error) {
			confirmed = sessionID
			return true, nil
		},
	}}
	engine := newTestEngine(t, facade)

	resp := serve(engine, httptest.NewRequest(http.MethodGet, usecase.SuccessPath, nil))
	want := "/account/login?returnUrl=%2Fdonate%2Fsuccess"
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != want {
		t.Fatalf("expected redirect to %q, got %d %q", want, resp.Code, resp.Header().Get("Location"))
	}
	if confirmed != "" {
		t.Fatal("confirmation must not run for anonymous visitors")
	}

	req := httptest.NewRequest(http.MethodGet, usecase.SuccessPath, nil)
	req.AddCookie(&http.Cookie{Name: "secondfamilies_token", Value: "token"})
	req.AddCookie(&http.Cookie{Name: "secondfamilies_session", Value: "0b9d1f4e-2d7c-4a43-9d59-7f3f4f3a9c11"})
	resp = serve(engine, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected success page, got %d", resp.Code)
	}
	if confirmed != "0b9d1f4e-2d7c-4a43-9d59-7f3f4f3a9c11" {
		t.Fatalf("expected confirmation for the visitor session, got %q", confirmed)
	}
}

func TestDonateRedirectsToPayment(t *testing.T) {
	engine := newTestEngine(t, testhelpers.CharityFacadeStub{})

	body := url.Values{"amount": {"25"}, "email": {"a@example.com"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/donate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := serve(engine, req)
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != "https://pay.example.com/?amount=25" {
		t.Fatalf("expected payment redirect, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func TestCompressedFormPost(t *testing.T) {
	var gotEmail string
	facade := testhelpers.CharityFacadeStub{AuthFacadeStub: testhelpers.AuthFacadeStub{
		AuthenticateFn: func(_ context.Context, email, _ string) (string, error) {
			gotEmail = email
			return "token", nil
		},
	}}
	engine := newTestEngine(t, facade)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(url.Values{"email": {"a@example.com"}, "password": {"pw"}}.Encode()))
	_ = gz.Close()

	req := httptest.NewRequest(http.MethodPost, "/account/login", &buf)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Encoding", "gzip")
	resp := serve(engine, req)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected redirect after login, got %d", resp.Code)
	}
	if gotEmail != "a@example.com" {
		t.Fatalf("expected decompressed form, got %q", gotEmail)
	}
}

func TestResponsesAreCompressed(t *testing.T) {
	engine := newTestEngine(t, testhelpers.CharityFacadeStub{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := serve(engine, req)
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got %q", resp.Header().Get("Content-Encoding"))
	}
	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer reader.Close()
	page, _ := io.ReadAll(reader)
	if !strings.Contains(string(page), "Second Families") {
		t.Fatal("expected home page content")
	}
}

var _ handlers.CharityFacade = testhelpers.CharityFacadeStub{}
