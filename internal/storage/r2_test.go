package storage

import (
	"context"
	"testing"
)

func TestPublicURL(t *testing.T) {
	cases := []struct {
		base, bucket, key, want string
	}{
		{"https://cdn.example.com/", "mess", "/statements/r1/2025-03.csv", "https://cdn.example.com/statements/r1/2025-03.csv"},
		{"https://cdn.example.com", "mess", "a.csv", "https://cdn.example.com/a.csv"},
		{"", "mess", "a.csv", "https://mess/a.csv"},
	}
	for _, c := range cases {
		if got := PublicURL(c.base, c.bucket, c.key); got != c.want {
			t.Errorf("PublicURL(%q, %q, %q) = %q, want %q", c.base, c.bucket, c.key, got, c.want)
		}
	}
}

func TestNewR2Client_RequiresConfig(t *testing.T) {
	if _, err := NewR2Client(context.Background(), R2Config{Bucket: "mess"}); err == nil {
		t.Fatal("expected error for incomplete config")
	}
}
