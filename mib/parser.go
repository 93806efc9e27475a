package mib

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	commentRE    = regexp.MustCompile(`--[^\n]*`)
	moduleHdrRE  = regexp.MustCompile(`(?m)^\s*([A-Za-z][\w-]*)\s+DEFINITIONS(?:\s+[\w-]+)?\s*::=\s*BEGIN`)
	importsRE    = regexp.MustCompile(`(?s)IMPORTS(.*?);`)
	importFromRE = regexp.MustCompile(`([\w,\s-]+?)\s+FROM\s+([\w-]+)`)
	assignmentRE = regexp.MustCompile(`(?m)^\s*([A-Za-z][\w-]*)\s+((?:OBJECT IDENTIFIER|OBJECT-TYPE|OBJECT-IDENTITY|MODULE-IDENTITY|NOTIFICATION-TYPE|[A-Z][\w-]*))\b[\s\S]*?::=\s*\{\s*([A-Za-z][\w-]*)\s+(\d+)\s*\}`)
)

// ParseFile reads one MIB text file and parses it into a Module. The
// module name is taken from its "<name> DEFINITIONS ::= BEGIN" header,
// not from the file's basename.
func ParseFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "mib: read %s", path)
	}
	return Parse(string(data))
}

// Parse parses MIB text already read into memory.
func Parse(text string) (*Module, error) {
	clean := commentRE.ReplaceAllString(text, "")

	hdr := moduleHdrRE.FindStringSubmatchIndex(clean)
	if hdr == nil {
		return nil, errors.New("mib: no module DEFINITIONS ::= BEGIN header found")
	}

	m := &Module{Name: clean[hdr[2]:hdr[3]]}

	if imp := importsRE.FindStringSubmatch(clean); imp != nil {
		for _, clause := range importFromRE.FindAllStringSubmatch(imp[1], -1) {
			from := clause[2]
			for _, sym := range strings.Split(clause[1], ",") {
				sym = strings.TrimSpace(sym)
				if sym == "" {
					continue
				}
				m.Imports = append(m.Imports, Import{Name: sym, From: from})
			}
		}
	}

	// Assignments are matched only after the header, so the header line
	// is never taken for an assignment running on to the first
	// "::= { parent n }" below it.
	for _, a := range assignmentRE.FindAllStringSubmatch(clean[hdr[1]:], -1) {
		name, kind, parent, subID := a[1], a[2], a[3], a[4]
		// Assignment.Value must be the three-token "<kind> <parent>
		// <sub-id>" form the resolver expects; ASN.1 keywords like
		// "OBJECT IDENTIFIER" are two words, so collapse the kind to a
		// single token before joining.
		kind = strings.Join(strings.Fields(kind), "-")
		m.Assignments = append(m.Assignments, Assignment{
			Name:  name,
			Value: kind + " " + parent + " " + subID,
		})
	}

	return m, nil
}

// ModuleNameForFile returns the module a MIB file is expected to
// define: its basename up to (not including) the first dot.
func ModuleNameForFile(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// LoadDirs scans dirs (as produced by splitting MIBDIRS) for files whose
// basename defines one of required. Directories that do not exist are
// skipped. It returns an error listing any required module that was
// not found.
func LoadDirs(dirs []string, required map[string]bool) (*Info, error) {
	found := make(map[string]*Module, len(required))

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // directory absent is not fatal
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := ModuleNameForFile(entry.Name())
			if !required[name] {
				continue
			}
			if _, already := found[name]; already {
				continue
			}
			mod, err := ParseFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, errors.Wrapf(err, "mib: parsing module %s", name)
			}
			found[name] = mod
		}
	}

	var missing []string
	for name := range required {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("mib: required modules not found: %s", strings.Join(missing, ", "))
	}

	modules := make([]*Module, 0, len(found))
	for _, mod := range found {
		modules = append(modules, mod)
	}
	return NewInfo(modules), nil
}

// SplitEnvList splits a colon-separated environment value, dropping
// empty entries produced by leading/trailing/doubled colons.
func SplitEnvList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ":") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
