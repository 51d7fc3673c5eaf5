package util

import "testing"

func TestHashKey(t *testing.T) {
	id := "Acme Datacenter"
	got := HashKey(id)
	if got != HashKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestShortHash(t *testing.T) {
	if got := ShortHash("x", 12); len(got) != 12 {
		t.Fatalf("expected 12 characters, got %d", len(got))
	}
	if got := ShortHash("x", 0); len(got) != 64 {
		t.Fatalf("expected full hash, got %d", len(got))
	}
}
