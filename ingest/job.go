package ingest

// JobSize bounds the number of u32 tuples a single Job carries.
const JobSize = 1 << 16

// Job is a pool-allocated, fixed-size buffer of tuples handed from a
// connection's reader goroutine to its collector workers through a
// JobQueue pair. Cnt is the number of valid u32s in Buf, always ≤ JobSize.
type Job struct {
	Cnt uint32
	Buf [JobSize]uint32
}
