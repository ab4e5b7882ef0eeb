package relay

import (
	"errors"
	"testing"
)

func TestValidateAllowedURL(t *testing.T) {
	allowlist := NewAllowlist([]string{"unpkg.com", "cdn.jsdelivr.net"})

	parsed, err := allowlist.Validate("https://unpkg.com/react@18/umd/react.production.min.js")
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if parsed.Hostname() != "unpkg.com" {
		t.Fatalf("unexpected host: %s", parsed.Hostname())
	}
}

func TestValidateNormalizesHostCase(t *testing.T) {
	allowlist := NewAllowlist([]string{"UNPKG.com"})

	if _, err := allowlist.Validate("https://Unpkg.COM/x.js"); err != nil {
		t.Fatalf("case-insensitive host should validate: %v", err)
	}
}

func TestValidateMissingInput(t *testing.T) {
	allowlist := NewAllowlist([]string{"unpkg.com"})

	for _, raw := range []string{"", "   "} {
		if _, err := allowlist.Validate(raw); !errors.Is(err, ErrMissingURL) {
			t.Fatalf("input %q: expected ErrMissingURL, got %v", raw, err)
		}
	}
}

func TestValidateMalformedInput(t *testing.T) {
	allowlist := NewAllowlist([]string{"unpkg.com"})

	cases := []string{
		"not a url at all",
		"ftp://unpkg.com/x.js",
		"//unpkg.com/x.js",
		"https://",
		"unpkg.com/x.js",
	}
	for _, raw := range cases {
		if _, err := allowlist.Validate(raw); !errors.Is(err, ErrMalformedURL) {
			t.Fatalf("input %q: expected ErrMalformedURL, got %v", raw, err)
		}
	}
}

func TestValidateDisallowedHost(t *testing.T) {
	allowlist := NewAllowlist([]string{"unpkg.com"})

	if _, err := allowlist.Validate("https://evil.example.com/x.js"); !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("expected ErrHostNotAllowed, got %v", err)
	}
}

func TestNewAllowlistSkipsBlankEntries(t *testing.T) {
	allowlist := NewAllowlist([]string{" unpkg.com ", "", "  "})
	if allowlist.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", allowlist.Len())
	}
}
