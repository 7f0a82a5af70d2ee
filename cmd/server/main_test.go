package main

import "testing"

func TestParseThreadsArgDefaultsCollectors(t *testing.T) {
	threads, collectors, err := parseThreadsArg("8")
	if err != nil {
		t.Fatalf("parseThreadsArg: %v", err)
	}
	if threads != 8 || collectors != 4 {
		t.Fatalf("got threads=%d collectors=%d, want 8,4", threads, collectors)
	}
}

func TestParseThreadsArgExplicitCollectors(t *testing.T) {
	threads, collectors, err := parseThreadsArg("8x2")
	if err != nil {
		t.Fatalf("parseThreadsArg: %v", err)
	}
	if threads != 8 || collectors != 2 {
		t.Fatalf("got threads=%d collectors=%d, want 8,2", threads, collectors)
	}
}

func TestParseThreadsArgRejectsGarbage(t *testing.T) {
	if _, _, err := parseThreadsArg("abc"); err == nil {
		t.Fatal("expected error for non-numeric threads")
	}
	if _, _, err := parseThreadsArg("8xabc"); err == nil {
		t.Fatal("expected error for non-numeric collectors")
	}
}
