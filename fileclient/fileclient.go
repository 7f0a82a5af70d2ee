// Package fileclient computes a cardinality estimate over a binary file of
// little-endian u32 tuples by memory-mapping it and sharding contiguous
// ranges across worker goroutines, each with its own collector, merged
// serially once every worker has collected its slice.
package fileclient

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"

	"github.com/xtaci/sktun/hashkind"
	"github.com/xtaci/sktun/sketch"
)

// Result reports what a Collect pass found.
type Result struct {
	ItemCount   uint64
	Cardinality float64
}

// Collect mmaps path, splits it into threads contiguous ranges
// ([i*isize/threads, (i+1)*isize/threads)), collects each range on its own
// goroutine with its own collector, then merges every collector but the
// first into it.
func Collect(path string, threads int, kind hashkind.Kind, geom sketch.Geometry) (Result, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "mmap open")
	}
	defer r.Close()

	isize := r.Len() / 4
	if threads < 1 {
		return Result{}, errors.New("fileclient: threads must be >= 1")
	}

	collectors := make([]*sketch.Collector, threads)
	var wg sync.WaitGroup
	errs := make([]error, threads)

	for i := 0; i < threads; i++ {
		c, err := sketch.New(geom, kind)
		if err != nil {
			return Result{}, err
		}
		collectors[i] = c

		lo := i * isize / threads
		hi := (i + 1) * isize / threads

		wg.Add(1)
		go func(i, lo, hi int) {
			defer wg.Done()
			data, err := readRange(r, lo, hi)
			if err != nil {
				errs[i] = err
				return
			}
			collectors[i].Collect(data)
		}(i, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Result{}, err
		}
	}

	for i := 1; i < threads; i++ {
		if err := collectors[0].Merge(collectors[i]); err != nil {
			return Result{}, err
		}
	}

	return Result{
		ItemCount:   uint64(isize),
		Cardinality: collectors[0].EstimateCardinality(),
	}, nil
}

func readRange(r *mmap.ReaderAt, lo, hi int) ([]uint32, error) {
	buf := make([]byte, 4*(hi-lo))
	if _, err := r.ReadAt(buf, int64(4*lo)); err != nil {
		return nil, errors.Wrap(err, "mmap read range")
	}
	data := make([]uint32, hi-lo)
	for i := range data {
		data[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return data, nil
}
