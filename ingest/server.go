package ingest

import (
	"context"
	"encoding/binary"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/xtaci/sktun/hashkind"
	"github.com/xtaci/sktun/sketch"
)

// DefaultAddr is the fixed port the reference server listens on.
const DefaultAddr = ":5017"

// ErrPartialTuple marks the log line emitted when a connection closes with
// trailing bytes that don't form a whole u32 tuple (spec.md §7); the bytes
// are discarded, not buffered across connections.
var ErrPartialTuple = errors.New("ingest: partial tuple discarded")

// Params configures a Server. Threads and MulCollectors bounds mirror the
// reference's CLI validation.
type Params struct {
	Kind          hashkind.Kind
	Threads       int
	MulCollectors int
	Geometry      sketch.Geometry
	Addr          string
}

func (p Params) validate() error {
	if p.Threads < 1 || p.Threads > 128 {
		return errors.Errorf("threads out of bounds, expected 1..128, got %d", p.Threads)
	}
	if p.MulCollectors < 1 || p.MulCollectors > 64 {
		return errors.Errorf("collectors multiple out of bounds, expected 1..64, got %d", p.MulCollectors)
	}
	return nil
}

// Result is the final report emitted once every reader and worker has
// joined and the per-connection collectors have been merged.
type Result struct {
	ItemCount            uint64
	CollectThroughputGBs float64
	TotalThroughputGBs   float64
	Cardinality          float64
	Median               float64
}

// Server accepts Threads TCP connections, each driving MulCollectors
// worker goroutines over a pair of free/full JobQueues, and merges every
// per-connection collector into one result once all connections close.
type Server struct {
	params     Params
	addr       string
	collectors []*sketch.Collector

	itemCount uint64
	connCount uint32

	t0mu sync.Mutex
	t0   time.Time

	ln net.Listener
}

// NewServer allocates Threads*MulCollectors collectors, all sharing
// Geometry and Kind, ready to accept connections.
func NewServer(p Params) (*Server, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	addr := p.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	collectors := make([]*sketch.Collector, p.Threads*p.MulCollectors)
	for i := range collectors {
		c, err := sketch.New(p.Geometry, p.Kind)
		if err != nil {
			return nil, err
		}
		collectors[i] = c
	}
	return &Server{params: p, addr: addr, collectors: collectors}, nil
}

// Listen binds the server's address ahead of Run, so callers (tests, or
// a CLI that wants to print the bound port) can observe Addr() before the
// accept loop starts consuming connections.
func (s *Server) Listen() error {
	ln, err := listen(s.addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.ln = ln
	log.Printf("ingest: listening on %s (threads=%d x%d)", ln.Addr(), s.params.Threads, s.params.MulCollectors)
	return nil
}

// Addr returns the bound listener's address. Valid only after Listen.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// ItemCount reports the running total of tuples collected so far, safe to
// call concurrently with Run (e.g. from a statlog sampler).
func (s *Server) ItemCount() uint64 { return atomic.LoadUint64(&s.itemCount) }

// Run listens on the server's address, accepts exactly Threads connections
// (one per reader goroutine), and blocks until every reader and its
// collector workers have finished, then merges and reports the result.
func (s *Server) Run(ctx context.Context) (Result, error) {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return Result{}, err
		}
	}
	ln := s.ln

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.params.Threads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := ln.Accept()
			if err != nil {
				log.Printf("ingest: accept failed on reader %d: %v", i, err)
				return
			}
			if atomic.AddUint32(&s.connCount, 1) == 1 {
				s.t0mu.Lock()
				s.t0 = time.Now()
				s.t0mu.Unlock()
			}
			s.runReader(i, conn)
		}(i)
	}
	wg.Wait()
	t1 := time.Now()
	ln.Close()

	for i := 1; i < len(s.collectors); i++ {
		if err := s.collectors[0].Merge(s.collectors[i]); err != nil {
			return Result{}, errors.Wrap(err, "merging per-connection collectors")
		}
	}
	cardEst := s.collectors[0].EstimateCardinality()

	cols := sketch.NewColumnAccumulator(s.params.Geometry.Ar)
	if err := cols.MergeColumns(s.collectors[0]); err != nil {
		return Result{}, errors.Wrap(err, "merging AGMS columns")
	}
	median := cols.GetMedian()

	t2 := time.Now()

	s.t0mu.Lock()
	t0 := s.t0
	s.t0mu.Unlock()

	items := atomic.LoadUint64(&s.itemCount)
	collectSecs := t1.Sub(t0).Seconds()
	totalSecs := t2.Sub(t0).Seconds()

	return Result{
		ItemCount:            items,
		CollectThroughputGBs: gbPerSec(items, collectSecs),
		TotalThroughputGBs:   gbPerSec(items, totalSecs),
		Cardinality:          cardEst,
		Median:               median,
	}, nil
}

func gbPerSec(items uint64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return (4 * float64(items)) / seconds / 1e9
}

// runReader owns one accepted connection for its lifetime: it reads raw
// little-endian u32 tuples off the wire into pool jobs, dispatching full
// jobs to mul_collectors worker goroutines and reclaiming them through the
// free queue, preserving any trailing partial u32 across reads.
func (s *Server) runReader(readerIdx int, conn net.Conn) {
	defer conn.Close()

	jobsFree := NewJobQueue(s.params.MulCollectors + 1)
	jobsFull := NewJobQueue(0)
	collectors := s.collectors[readerIdx*s.params.MulCollectors : (readerIdx+1)*s.params.MulCollectors]

	var workers sync.WaitGroup
	for w := 0; w < s.params.MulCollectors; w++ {
		workers.Add(1)
		go func(w int) {
			defer workers.Done()
			for {
				job := jobsFull.Pop()
				if job == nil {
					return
				}
				collectors[w].Collect(job.Buf[:job.Cnt])
				atomic.AddUint64(&s.itemCount, uint64(job.Cnt))
				jobsFree.Push(job)
			}
		}(w)
	}

	raw := make([]byte, JobSize*4)
	var carry [4]byte
	carryLen := 0

	for {
		job := jobsFree.Pop()
		copy(raw, carry[:carryLen])

		n, err := io.ReadFull(conn, raw[carryLen:])
		total := carryLen + n

		items := total / 4
		for i := 0; i < items; i++ {
			job.Buf[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		job.Cnt = uint32(items)
		carryLen = total % 4
		copy(carry[:carryLen], raw[items*4:items*4+carryLen])

		if items > 0 {
			jobsFull.Push(job)
		}

		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				log.Printf("ingest: reader %d: connection error: %v", readerIdx, err)
			}
			if carryLen > 0 {
				log.Printf("reader %d: %d remaining bytes: %v", readerIdx, carryLen, ErrPartialTuple)
			}
			break
		}
	}

	for i := 0; i < s.params.MulCollectors; i++ {
		jobsFull.Push(nil)
	}
	workers.Wait()
}
