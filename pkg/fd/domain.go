// Package fd implements a small finite-domain constraint engine: bitset
// domains, propagating constraints and a depth-first solver with
// snapshot-on-branch backtracking.
package fd

import (
	"fmt"
	"math/bits"
	"strings"
)

// Domain is an immutable set of candidate values in [0, max]. Mutating
// operations return a new Domain, which keeps state snapshots cheap: a
// search node can share domains with its parent until one of them is pruned.
type Domain struct {
	words []uint64
	max   int
}

// NewDomain returns the domain {lo, lo+1, ..., hi}.
func NewDomain(lo, hi int) Domain {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("fd: invalid domain bounds [%d, %d]", lo, hi))
	}
	d := emptyDomain(hi)
	for v := lo; v <= hi; v++ {
		d.words[v>>6] |= 1 << (uint(v) & 63)
	}
	return d
}

// NewDomainValues returns the domain holding exactly the given values.
func NewDomainValues(values []int) Domain {
	if len(values) == 0 {
		panic("fd: empty value set")
	}
	max := values[0]
	for _, v := range values {
		if v < 0 {
			panic(fmt.Sprintf("fd: negative domain value %d", v))
		}
		if v > max {
			max = v
		}
	}
	d := emptyDomain(max)
	for _, v := range values {
		d.words[v>>6] |= 1 << (uint(v) & 63)
	}
	return d
}

func emptyDomain(max int) Domain {
	return Domain{words: make([]uint64, max>>6+1), max: max}
}

// Has reports whether v is a candidate value.
func (d Domain) Has(v int) bool {
	if v < 0 || v > d.max {
		return false
	}
	return d.words[v>>6]&(1<<(uint(v)&63)) != 0
}

// Count returns the number of candidate values.
func (d Domain) Count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether no candidate value remains.
func (d Domain) Empty() bool {
	for _, w := range d.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsSingleton reports whether exactly one candidate value remains.
func (d Domain) IsSingleton() bool {
	return d.Count() == 1
}

// Min returns the smallest candidate value. Panics on an empty domain.
func (d Domain) Min() int {
	for i, w := range d.words {
		if w != 0 {
			return i<<6 + bits.TrailingZeros64(w)
		}
	}
	panic("fd: Min on empty domain")
}

// Max returns the largest candidate value. Panics on an empty domain.
func (d Domain) Max() int {
	for i := len(d.words) - 1; i >= 0; i-- {
		if w := d.words[i]; w != 0 {
			return i<<6 + 63 - bits.LeadingZeros64(w)
		}
	}
	panic("fd: Max on empty domain")
}

// Value returns the single remaining value. Panics unless IsSingleton.
func (d Domain) Value() int {
	if !d.IsSingleton() {
		panic("fd: Value on non-singleton domain")
	}
	return d.Min()
}

// Remove returns a copy of d without v.
func (d Domain) Remove(v int) Domain {
	if !d.Has(v) {
		return d
	}
	nd := d.clone()
	nd.words[v>>6] &^= 1 << (uint(v) & 63)
	return nd
}

// Fix returns the singleton domain {v}. Panics if v is not a candidate.
func (d Domain) Fix(v int) Domain {
	if !d.Has(v) {
		panic(fmt.Sprintf("fd: Fix(%d) outside domain", v))
	}
	nd := emptyDomain(d.max)
	nd.words[v>>6] |= 1 << (uint(v) & 63)
	return nd
}

// Intersect returns the values present in both domains.
func (d Domain) Intersect(other Domain) Domain {
	nd := emptyDomain(d.max)
	for i := range nd.words {
		nd.words[i] = d.words[i]
		if i < len(other.words) {
			nd.words[i] &= other.words[i]
		} else {
			nd.words[i] = 0
		}
	}
	return nd
}

// RemoveRange returns a copy of d without the values in [lo, hi].
func (d Domain) RemoveRange(lo, hi int) Domain {
	nd := d
	for v := max(lo, 0); v <= min(hi, d.max); v++ {
		nd = nd.Remove(v)
	}
	return nd
}

// Iterate calls fn for every candidate value in ascending order.
func (d Domain) Iterate(fn func(v int)) {
	for i, w := range d.words {
		for w != 0 {
			v := i<<6 + bits.TrailingZeros64(w)
			fn(v)
			w &= w - 1
		}
	}
}

// Values returns the candidate values in ascending order.
func (d Domain) Values() []int {
	values := make([]int, 0, d.Count())
	d.Iterate(func(v int) { values = append(values, v) })
	return values
}

// Equal reports whether both domains hold the same values.
func (d Domain) Equal(other Domain) bool {
	if d.Count() != other.Count() {
		return false
	}
	equal := true
	d.Iterate(func(v int) {
		if !other.Has(v) {
			equal = false
		}
	})
	return equal
}

func (d Domain) String() string {
	var builder strings.Builder
	builder.WriteString("{")
	first := true
	d.Iterate(func(v int) {
		if !first {
			builder.WriteString(" ")
		}
		fmt.Fprintf(&builder, "%d", v)
		first = false
	})
	builder.WriteString("}")
	return builder.String()
}

func (d Domain) clone() Domain {
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	return Domain{words: words, max: d.max}
}
