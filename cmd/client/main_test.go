package main

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestFillSequential(t *testing.T) {
	data := fillSequential(5)
	for i, v := range data {
		if v != uint32(i) {
			t.Fatalf("data[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestFillFromFileLoopsWhenShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuples.txt")
	if err := os.WriteFile(path, []byte("1 2 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := fillFromFile(path, 7)
	if err != nil {
		t.Fatalf("fillFromFile: %v", err)
	}
	want := []uint32{1, 2, 3, 1, 2, 3, 1}
	if len(data) != len(want) {
		t.Fatalf("got %d values, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestFillFromFileRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := fillFromFile(path, 3); err == nil {
		t.Fatal("expected error for empty datafile")
	}
}

func TestSendRepeatedlyWritesExpectedBytes(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	data := []uint32{10, 20, 30}
	const repetitions = 2

	readDone := make(chan []byte)
	go func() {
		buf := make([]byte, 4*len(data)*repetitions)
		n := 0
		for n < len(buf) {
			m, err := server.Read(buf[n:])
			if err != nil {
				break
			}
			n += m
		}
		readDone <- buf[:n]
	}()

	sendRepeatedly(client, data, repetitions)
	client.Close()

	got := <-readDone
	if len(got) != 4*len(data)*repetitions {
		t.Fatalf("got %d bytes, want %d", len(got), 4*len(data)*repetitions)
	}
	for r := 0; r < repetitions; r++ {
		for i, v := range data {
			off := r*4*len(data) + 4*i
			if binary.LittleEndian.Uint32(got[off:]) != v {
				t.Fatalf("rep %d value %d mismatch", r, i)
			}
		}
	}
}
