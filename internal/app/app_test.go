package app

import "testing"

func TestRunDispatch(t *testing.T) {
	if code := Run(nil); code != 2 {
		t.Fatalf("Run with no args = %d, want 2", code)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("Run(help) = %d, want 0", code)
	}
	if code := Run([]string{"--help"}); code != 0 {
		t.Fatalf("Run(--help) = %d, want 0", code)
	}
	if code := Run([]string{"frobnicate"}); code != 2 {
		t.Fatalf("Run with unknown command = %d, want 2", code)
	}
}
