package main

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestConvertWritesLittleEndianU32s(t *testing.T) {
	var out bytes.Buffer
	if err := convert(strings.NewReader("1 2\n3\t4"), &out); err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := []uint32{1, 2, 3, 4}
	got := out.Bytes()
	if len(got) != 4*len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), 4*len(want))
	}
	for i, v := range want {
		if binary.LittleEndian.Uint32(got[4*i:]) != v {
			t.Fatalf("value %d mismatch", i)
		}
	}
}

func TestConvertRejectsNonNumeric(t *testing.T) {
	var out bytes.Buffer
	if err := convert(strings.NewReader("1 foo 3"), &out); err == nil {
		t.Fatal("expected error for non-numeric token")
	}
}
