package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewHMACStrategy_DefaultTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewHMACStrategy_CustomTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: 2 * time.Hour})
	if strategy.ttl != 2*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	subject := "6f1c2a9e-8a47-4b0c-9d7e-1f2a3b4c5d6e"
	token, err := strategy.IssueToken(subject)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	got, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if got != subject {
		t.Fatalf("unexpected subject: %q", got)
	}
}

func TestHMACStrategy_IssueRejectsBadSubject(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	for _, subject := range []string{"", "a:b"} {
		if _, err := strategy.IssueToken(subject); err == nil {
			t.Fatalf("expected error for subject %q", subject)
		}
	}
}

func TestHMACStrategy_ParseInvalid(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	expired := fmt.Sprintf("user:%d", time.Now().Add(-time.Minute).Unix())
	badExpiry := "user:not-a-number"
	cases := map[string]string{
		"not base64":  "not-base64",
		"two parts":   base64.StdEncoding.EncodeToString([]byte("only:two")),
		"expired":     base64.StdEncoding.EncodeToString([]byte(expired + ":" + strategy.sign(expired))),
		"bad expiry":  base64.StdEncoding.EncodeToString([]byte(badExpiry + ":" + strategy.sign(badExpiry))),
		"other secret": func() string {
			token, _ := NewHMACStrategy("other", Options{}).IssueToken("user")
			return token
		}(),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_ParseTamperedSignature(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken("user")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(token)
	parts := strings.Split(string(raw), ":")
	parts[2] = "tampered"
	tampered := base64.StdEncoding.EncodeToString([]byte(strings.Join(parts, ":")))
	if _, err := strategy.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if name := NewHMACStrategy("secret", Options{}).Name(); name != "hmac" {
		t.Fatalf("unexpected name: %s", name)
	}
}
