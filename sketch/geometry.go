// Package sketch implements the streaming sketch collector: a single pass
// over a slice of 32-bit tuples updates a HyperLogLog cardinality estimator,
// an AGMS tug-of-war sketch, and a Count-Min frequency sketch, all driven by
// one hash evaluation per tuple.
package sketch

import (
	"github.com/pkg/errors"
	"github.com/xtaci/sktun/hashkind"
)

// Geometry fixes the three sketches' buffer sizes and bit-carving widths.
// It is set once at Collector construction and never changes.
type Geometry struct {
	Hp uint // HLL: M = 2^Hp buckets
	Ar uint // AGMS: row count
	Ap uint // AGMS: P = 2^Ap columns per row
	Cr uint // CM: row count
	Cp uint // CM: 2^Cp columns per row
}

// ErrInvalidGeometry is returned by New when a geometry violates the bounds
// in the data model (parameter ranges, or bit budget vs. hash width).
var ErrInvalidGeometry = errors.New("sketch: invalid geometry")

// ErrGeometryMismatch is returned by Merge when the two collectors involved
// don't share identical geometry, and by MergeColumns when their Ar differs.
var ErrGeometryMismatch = errors.New("sketch: geometry mismatch")

func (g Geometry) validate(width int) error {
	if g.Hp < 4 || g.Hp > 16 {
		return errors.Wrapf(ErrInvalidGeometry, "hp=%d out of [4,16]", g.Hp)
	}
	if g.Ar < 1 || g.Ar > 8 {
		return errors.Wrapf(ErrInvalidGeometry, "ar=%d out of [1,8]", g.Ar)
	}
	if g.Ap < 4 || g.Ap > 16 {
		return errors.Wrapf(ErrInvalidGeometry, "ap=%d out of [4,16]", g.Ap)
	}
	if g.Cr < 1 || g.Cr > 8 {
		return errors.Wrapf(ErrInvalidGeometry, "cr=%d out of [1,8]", g.Cr)
	}
	if g.Cp < 4 || g.Cp > 16 {
		return errors.Wrapf(ErrInvalidGeometry, "cp=%d out of [4,16]", g.Cp)
	}
	if g.Ar*(g.Ap+1) > uint(width) {
		return errors.Wrapf(ErrInvalidGeometry, "ar*(ap+1)=%d exceeds hash width %d", g.Ar*(g.Ap+1), width)
	}
	if g.Cr*g.Cp > uint(width) {
		return errors.Wrapf(ErrInvalidGeometry, "cr*cp=%d exceeds hash width %d", g.Cr*g.Cp, width)
	}
	return nil
}

// ReferenceGeometry is the (13,5,13,5,13) geometry the ingest server and
// file client default to, matching the fixed-function accelerator this
// software core interoperates with.
var ReferenceGeometry = Geometry{Hp: 13, Ar: 5, Ap: 13, Cr: 5, Cp: 13}

func init() {
	if err := ReferenceGeometry.validate(hashkind.Murmur3_128.Width()); err != nil {
		panic(err)
	}
}
