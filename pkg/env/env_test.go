package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("MYSTORE_TEST_EMPTY", "  ")
	if got := Get("MYSTORE_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("MYSTORE_TEST_SET", "value")
	if got := Get("MYSTORE_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestFirstPicksEarliestKey(t *testing.T) {
	t.Setenv("MYSTORE_TEST_B", "b")
	t.Setenv("MYSTORE_TEST_C", "c")
	if got := First("x", "MYSTORE_TEST_A", "MYSTORE_TEST_B", "MYSTORE_TEST_C"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := First("x", "MYSTORE_TEST_MISSING"); got != "x" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
