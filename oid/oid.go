// Package oid defines the numeric Object Identifier type shared by the
// MIB resolver, the SNMP session driver and the collection pipeline.
package oid

import (
	"strconv"
	"strings"
)

// OID is an ordered sequence of unsigned sub-identifiers, rooted at the
// ISO root (component 1).
type OID []uint64

// Parse converts a dotted-decimal string, with or without a leading dot,
// into an OID. A trailing dot, more than one leading dot and empty
// components are rejected.
func Parse(s string) (OID, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, strconv.ErrSyntax
	}
	parts := strings.Split(s, ".")
	o := make(OID, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, err
		}
		o[i] = n
	}
	return o, nil
}

// MustParse is like Parse but panics on error; intended for static OIDs
// known to be well-formed at compile time (tests, constant tables).
func MustParse(s string) OID {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String renders the OID in dotted-decimal form, e.g. "1.3.6.1.2.1".
func (o OID) String() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ".")
}

// Clone returns a copy of the OID, so callers can mutate it without
// aliasing the receiver's backing array.
func (o OID) Clone() OID {
	c := make(OID, len(o))
	copy(c, o)
	return c
}

// Equal reports whether the two OIDs have identical components.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// Less reports whether o sorts lexicographically before other, comparing
// component by component and treating a shorter prefix as smaller.
func (o OID) Less(other OID) bool {
	for i := 0; i < len(o) && i < len(other); i++ {
		if o[i] != other[i] {
			return o[i] < other[i]
		}
	}
	return len(o) < len(other)
}

// GreaterOrEqual reports whether o sorts at or after other.
func (o OID) GreaterOrEqual(other OID) bool {
	return !o.Less(other)
}

// HasPrefix reports whether o is prefix or a strict descendant of prefix.
func (o OID) HasPrefix(prefix OID) bool {
	if len(o) < len(prefix) {
		return false
	}
	for i := range prefix {
		if o[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Last returns the final sub-identifier, used as the row index in
// table joins. It panics on an empty OID.
func (o OID) Last() uint64 {
	return o[len(o)-1]
}

// Parent returns all but the last sub-identifier.
func (o OID) Parent() OID {
	if len(o) == 0 {
		return nil
	}
	return o[:len(o)-1].Clone()
}

// NextSibling returns the OID obtained by incrementing the last
// sub-identifier by one; used as the bulk-walk termination marker.
func (o OID) NextSibling() OID {
	n := o.Clone()
	n[len(n)-1]++
	return n
}

// WithLast returns a copy of o with its last component replaced, used by
// the HPE Comware workaround to reconstruct a missing table cell's OID
// from a sibling row.
func (o OID) WithLast(last uint64) OID {
	n := o.Clone()
	n[len(n)-1] = last
	return n
}
