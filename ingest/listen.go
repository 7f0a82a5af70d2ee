//go:build !linux

package ingest

import "net"

// listen falls back to a plain bind on platforms without SO_REUSEPORT
// support wired up here; the reference server itself only ever runs on
// Linux, but the split keeps build portability the same shape the teacher
// uses for its own platform-gated listener pair.
func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
