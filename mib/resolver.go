package mib

import (
	"fmt"

	"github.com/damianoneill/snmpcollect/oid"
)

// isoSymbol is the only hard-coded anchor in the resolver: the ITU-T
// X.660 "iso" node, sub-identifier 1 under the unnamed root.
const isoSymbol = "iso"

type resolveKey struct {
	module, symbol string
}

// Resolve translates a "MODULE::symbol" name into its numeric OID:
// walk parent assignments bottom-up within a module, follow imports
// into the defining module, and terminate at "iso".
func Resolve(info *Info, symbolic string) (oid.OID, error) {
	module, symbol, err := SplitSymbolic(symbolic)
	if err != nil {
		return nil, err
	}
	return resolve(info, module, symbol, make(map[resolveKey]bool))
}

func resolve(info *Info, moduleName, symbol string, seen map[resolveKey]bool) (oid.OID, error) {
	acc, cur, curModule := []uint64{}, symbol, moduleName

	for {
		// Every (module, symbol) pair visited by either the bottom-up
		// assignment walk or an import hop is recorded here, so a cycle
		// anywhere in the chain — within one module or across an
		// IMPORTS boundary — is caught on re-entry rather than looping.
		key := resolveKey{curModule, cur}
		if seen[key] {
			return nil, fmt.Errorf("mib: cyclic assignment resolving %s::%s", curModule, cur)
		}
		seen[key] = true

		module, ok := info.Modules[curModule]
		if !ok {
			return nil, fmt.Errorf("mib: unknown module %s", curModule)
		}

		if a, ok := module.Assignment(cur); ok {
			parent, subID, ok := a.Parent()
			if !ok {
				return nil, fmt.Errorf("mib: cannot resolve %s in %s: malformed assignment value %q", cur, curModule, a.Value)
			}
			acc = append(acc, subID)
			cur = parent
			continue
		}

		if imp, ok := module.Import(cur); ok {
			prefix, err := resolve(info, imp.From, cur, seen)
			if err != nil {
				return nil, err
			}
			return append(prefix, reversed(acc)...), nil
		}

		if cur == isoSymbol {
			acc = append(acc, 1)
			return reversed(acc), nil
		}

		return nil, fmt.Errorf("cannot resolve %s in %s", cur, curModule)
	}
}

func reversed(s []uint64) []uint64 {
	out := make([]uint64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Map is the set of symbolic OIDs resolved at startup, immutable and
// shared by reference across every device collector.
type Map struct {
	forward map[string]oid.OID
	reverse map[string]string // numeric OID (dotted) -> "MODULE::symbol"
}

// ResolveAll resolves every symbolic OID in names, building both the
// forward map used by collectors and the reverse index the formatter
// uses to turn a value column's OID back into its MIB symbol name,
// built once here instead of the formatter linearly scanning the map
// on every reading.
func ResolveAll(info *Info, names []string) (*Map, error) {
	m := &Map{
		forward: make(map[string]oid.OID, len(names)),
		reverse: make(map[string]string, len(names)),
	}
	for _, name := range names {
		resolved, err := Resolve(info, name)
		if err != nil {
			return nil, err
		}
		m.forward[name] = resolved
		m.reverse[resolved.String()] = name
	}
	return m, nil
}

// OID returns the numeric OID a symbolic name resolved to.
func (m *Map) OID(symbolic string) (oid.OID, bool) {
	o, ok := m.forward[symbolic]
	return o, ok
}

// Symbol reverse-looks-up a numeric OID (dotted string form) to the
// symbolic name it was resolved from, if any.
func (m *Map) Symbol(numeric string) (string, bool) {
	s, ok := m.reverse[numeric]
	return s, ok
}

// Names returns every symbolic OID in the map, for CLI commands that
// need to enumerate the resolved catalog (e.g. mib-test).
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.forward))
	for name := range m.forward {
		names = append(names, name)
	}
	return names
}
