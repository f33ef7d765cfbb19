package logging

import "testing"

func TestIsAllowlisted(t *testing.T) {
	for _, key := range []string{"service", "  Severity ", "RequestID", "listingId"} {
		if !IsAllowlisted(key) {
			t.Fatalf("%q should be allowlisted", key)
		}
	}
	for _, key := range []string{"authorization", "token", "secret", ""} {
		if IsAllowlisted(key) {
			t.Fatalf("%q must stay masked", key)
		}
	}
}

func TestRedactionAllowlistSorted(t *testing.T) {
	keys := RedactionAllowlist()
	if len(keys) == 0 {
		t.Fatalf("allowlist empty")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("allowlist not sorted at %d: %q >= %q", i, keys[i-1], keys[i])
		}
	}
}
