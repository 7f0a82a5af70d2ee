package sketch

import (
	"math"
	"sort"

	"github.com/xtaci/sktun/hashkind"
)

// Collector owns three dense buffers — HLL buckets, an AGMS table, and a
// Count-Min table — plus the hash kind bound to it at construction. A
// single Collect pass updates all three from the same per-tuple hash; no
// tuple is ever hashed twice.
type Collector struct {
	geom Geometry
	kind hashkind.Kind

	hll  []uint32 // len = 2^Hp
	agms []int32  // len = Ar * 2^Ap
	cm   []uint32 // len = Cr * 2^Cp
}

// New allocates a zero-initialized Collector for the given geometry and
// hash kind. It fails if the geometry's parameters or bit budget (against
// the hash's width) are out of range.
func New(geom Geometry, kind hashkind.Kind) (*Collector, error) {
	if err := geom.validate(kind.Width()); err != nil {
		return nil, err
	}
	return &Collector{
		geom: geom,
		kind: kind,
		hll:  make([]uint32, 1<<geom.Hp),
		agms: make([]int32, geom.Ar<<geom.Ap),
		cm:   make([]uint32, geom.Cr<<geom.Cp),
	}, nil
}

// NewColumnAccumulator builds a minimal collector that carries no HLL or
// CM buffers, suitable only as a MergeColumns/GetMedian target: its AGMS
// table holds 2*ar cells (Ap=1, two columns per row), of which MergeColumns
// writes and GetMedian reads only the first ar. Geometry validation is
// skipped since this collector never participates in Collect or the
// general production pipeline.
func NewColumnAccumulator(ar uint) *Collector {
	return &Collector{
		geom: Geometry{Ar: ar, Ap: 1},
		agms: make([]int32, ar<<1),
	}
}

// Geometry reports the collector's fixed buffer geometry.
func (c *Collector) Geometry() Geometry { return c.geom }

// Kind reports the hash variant bound to the collector.
func (c *Collector) Kind() hashkind.Kind { return c.kind }

// Collect hashes each key in data once and folds the result into all three
// sketches. Order of keys within data does not affect the resulting
// buffers: HLL folds by max, AGMS and CM fold by sum, both commutative.
func (c *Collector) Collect(data []uint32) {
	w := uint(c.kind.Width())
	hp, ap, cp := c.geom.Hp, c.geom.Ap, c.geom.Cp
	apMask := uint64(1)<<ap - 1
	cpMask := uint64(1)<<cp - 1

	for _, key := range data {
		h := hashkind.Hash(c.kind, key)
		hi, lo := h.Hi, h.Lo

		// HLL: top hp bits select the bucket; clz of the remaining W bits
		// (after discarding the bucket selector and guarding the all-zero
		// case with +1/-1) gives the rank.
		_, blo := shr128(hi, lo, w-hp)
		bucket := blo & (uint64(1)<<hp - 1)

		rhi, rlo := add1_128(hi, lo)
		rhi, rlo = shl128(rhi, rlo, hp)
		rhi, rlo = sub1_128(rhi, rlo)
		rhi, rlo = mask128(rhi, rlo, int(w))
		rank := uint32(clzW(rhi, rlo, int(w))) + 1
		if rank > c.hll[bucket] {
			c.hll[bucket] = rank
		}

		// AGMS: consume ap+1 bits per row, starting from the low-order end:
		// the low ap bits give the column offset and the next bit (bit ap,
		// read as bit 1 after the ap-1 shift) gives the sign.
		ahi, alo := hi, lo
		for j := uint(0); j < c.geom.Ar; j++ {
			o := alo & apMask
			ahi, alo = shr128(ahi, alo, ap-1)
			sign := int32(alo&2) - 1
			ahi, alo = shr128(ahi, alo, 2)
			c.agms[uint64(j)<<ap+o] += sign
		}

		// CM: consume cp bits per row, starting from the low-order end,
		// independently of the AGMS cursor above (both start from the same
		// hash value).
		chi, clo := hi, lo
		for j := uint(0); j < c.geom.Cr; j++ {
			offset := clo & cpMask
			chi, clo = shr128(chi, clo, cp)
			c.cm[uint64(j)<<cp+offset]++
		}
	}
}

// Merge folds other into c: HLL buckets take the element-wise max, AGMS and
// CM cells accumulate by element-wise sum (signed wrapping for AGMS,
// unsigned wrapping for CM). c and other must share identical geometry.
func (c *Collector) Merge(other *Collector) error {
	if c.geom != other.geom {
		return ErrGeometryMismatch
	}
	for i, v := range other.hll {
		if v > c.hll[i] {
			c.hll[i] = v
		}
	}
	for i, v := range other.agms {
		c.agms[i] += v
	}
	for i, v := range other.cm {
		c.cm[i] += v
	}
	return nil
}

// MergeColumns collapses each row of src's AGMS table into a single scalar
// added to the matching cell of c: c.agms[i] += Σ_j src.agms[i*2^Ap+j]².
// c and src must share the same Ar; c is typically a fresh, narrow
// collector from NewColumnAccumulator, whose AGMS table has at least Ar
// cells.
func (c *Collector) MergeColumns(src *Collector) error {
	if c.geom.Ar != src.geom.Ar {
		return ErrGeometryMismatch
	}
	n := uint(1) << src.geom.Ap
	for i := uint(0); i < src.geom.Ar; i++ {
		var sum int64
		for j := uint(0); j < n; j++ {
			v := int64(src.agms[i*n+j])
			sum += v * v
		}
		c.agms[i] += int32(sum)
	}
	return nil
}

// GetMedian sorts the first Ar cells of the AGMS table ascending and
// returns the mean of the two middle elements (matching a median on both
// odd and even Ar). It is meant to be called on the collector that just
// received a MergeColumns call.
func (c *Collector) GetMedian() float64 {
	ar := int(c.geom.Ar)
	row := make([]int32, ar)
	copy(row, c.agms[:ar])
	sort.Slice(row, func(i, j int) bool { return row[i] < row[j] })
	return float64(row[(ar-1)/2]+row[ar/2]) / 2
}

// EstimateCardinality returns the HyperLogLog cardinality estimate,
// applying small-range linear counting when the raw estimate and zero
// count call for it. Large-range correction is deliberately omitted.
func (c *Collector) EstimateCardinality() float64 {
	m := float64(uint(1) << c.geom.Hp)
	alpha := (0.7213 * m) / (m + 1.079)

	var zeros int
	var sumInv float64
	for _, rank := range c.hll {
		if rank == 0 {
			zeros++
		}
		sumInv += math.Ldexp(1, -int(rank))
	}
	raw := (alpha * m * m) / sumInv

	if raw <= 2.5*m && zeros > 0 {
		return m * math.Log(m/float64(zeros))
	}
	return raw
}

// Clean zeros all three buffers in place; geometry and hash kind are
// retained, leaving the collector equivalent to a freshly constructed one.
func (c *Collector) Clean() {
	for i := range c.hll {
		c.hll[i] = 0
	}
	for i := range c.agms {
		c.agms[i] = 0
	}
	for i := range c.cm {
		c.cm[i] = 0
	}
}
