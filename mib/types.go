// Package mib resolves symbolic "MODULE::symbol" object names against a
// corpus of parsed MIB text files, and loads that corpus from the
// directories named by the MIBDIRS environment variable.
//
// The parser in this package is intentionally narrow: it recognises a
// simplified textual assignment form ("<kind> <parent-symbol>
// <sub-identifier>"), not the full ASN.1 SMI grammar. See DESIGN.md for
// why that scope was chosen.
package mib

import (
	"fmt"
	"strings"
)

// Assignment binds a symbol to its parent in the OID tree. Value is the
// textual form "<type> <parent-symbol> <sub-identifier>", or empty if
// the symbol has no numeric assignment (e.g. it is a bare IMPORT).
type Assignment struct {
	Name  string
	Value string
}

// Parent returns the parent symbol and sub-identifier named in the
// assignment's Value, and false if Value does not parse into the
// three-token form the resolver expects.
func (a Assignment) Parent() (parent string, subID uint64, ok bool) {
	fields := strings.Fields(a.Value)
	if len(fields) != 3 {
		return "", 0, false
	}
	var n uint64
	if _, err := fmt.Sscanf(fields[2], "%d", &n); err != nil {
		return "", 0, false
	}
	return fields[1], n, true
}

// Import records that Name is defined in module From rather than in the
// importing module itself.
type Import struct {
	Name string
	From string
}

// Module is one parsed MIB text file.
type Module struct {
	Name        string
	Assignments []Assignment
	Imports     []Import

	byName map[string]*Assignment
	byImp  map[string]*Import
}

// Info is the output of loading a corpus of MIB files: every module
// found, indexed by name for the resolver's import-following step.
type Info struct {
	Modules map[string]*Module
}

// NewInfo builds an Info from a flat list of modules, indexing each one.
func NewInfo(modules []*Module) *Info {
	info := &Info{Modules: make(map[string]*Module, len(modules))}
	for _, m := range modules {
		m.index()
		info.Modules[m.Name] = m
	}
	return info
}

func (m *Module) index() {
	m.byName = make(map[string]*Assignment, len(m.Assignments))
	for i := range m.Assignments {
		m.byName[m.Assignments[i].Name] = &m.Assignments[i]
	}
	m.byImp = make(map[string]*Import, len(m.Imports))
	for i := range m.Imports {
		m.byImp[m.Imports[i].Name] = &m.Imports[i]
	}
}

// Assignment looks up a symbol defined directly in this module.
func (m *Module) Assignment(name string) (Assignment, bool) {
	a, ok := m.byName[name]
	if !ok {
		return Assignment{}, false
	}
	return *a, true
}

// Import looks up a symbol this module imports from another module.
func (m *Module) Import(name string) (Import, bool) {
	i, ok := m.byImp[name]
	if !ok {
		return Import{}, false
	}
	return *i, true
}

// SplitSymbolic splits a "MODULE::symbol" string, failing if it does not
// contain exactly one "::" separator.
func SplitSymbolic(s string) (module, symbol string, err error) {
	parts := strings.Split(s, "::")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("mib: %q is not a MODULE::symbol name", s)
	}
	return parts[0], parts[1], nil
}
