package fileclient

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/xtaci/sktun/hashkind"
	"github.com/xtaci/sktun/sketch"
)

func writeBinFile(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tuples.bin")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(i))
	}
	if _, err := f.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestCollectShardingMatchesSingleThreaded(t *testing.T) {
	const n = 5000
	path := writeBinFile(t, n)
	geom := sketch.Geometry{Hp: 10, Ar: 5, Ap: 10, Cr: 5, Cp: 10}

	sharded, err := Collect(path, 4, hashkind.Murmur3_128, geom)
	if err != nil {
		t.Fatalf("Collect(4 threads): %v", err)
	}

	single, err := Collect(path, 1, hashkind.Murmur3_128, geom)
	if err != nil {
		t.Fatalf("Collect(1 thread): %v", err)
	}

	if sharded.ItemCount != uint64(n) || single.ItemCount != uint64(n) {
		t.Fatalf("ItemCount mismatch: sharded=%d single=%d want %d", sharded.ItemCount, single.ItemCount, n)
	}
	if sharded.Cardinality != single.Cardinality {
		t.Fatalf("sharded cardinality %v != single-threaded cardinality %v", sharded.Cardinality, single.Cardinality)
	}
}

func TestCollectRejectsZeroThreads(t *testing.T) {
	path := writeBinFile(t, 16)
	geom := sketch.Geometry{Hp: 4, Ar: 1, Ap: 4, Cr: 1, Cp: 4}
	if _, err := Collect(path, 0, hashkind.Murmur3_128, geom); err == nil {
		t.Fatal("Collect with 0 threads should fail")
	}
}
