package mib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildInfo mirrors the SNMPv2-SMI / IF-MIB fragment used throughout the
// collector/carbon tests, resolving ifInOctets to 1.3.6.1.2.1.2.2.1.10 and
// ifTable to 1.3.6.1.2.1.2.2.
func buildInfo() *Info {
	smi := &Module{
		Name: "SNMPv2-SMI",
		Assignments: []Assignment{
			{Name: "org", Value: "OBJECT-IDENTITY iso 3"},
			{Name: "dod", Value: "OBJECT-IDENTITY org 6"},
			{Name: "internet", Value: "OBJECT-IDENTITY dod 1"},
			{Name: "mgmt", Value: "OBJECT-IDENTITY internet 2"},
			{Name: "mib-2", Value: "OBJECT-IDENTITY mgmt 1"},
		},
	}
	ifMIB := &Module{
		Name: "IF-MIB",
		Imports: []Import{
			{Name: "mib-2", From: "SNMPv2-SMI"},
		},
		Assignments: []Assignment{
			{Name: "interfaces", Value: "OBJECT-IDENTITY mib-2 2"},
			{Name: "ifTable", Value: "OBJECT-TYPE interfaces 2"},
			{Name: "ifEntry", Value: "OBJECT-TYPE ifTable 1"},
			{Name: "ifInOctets", Value: "OBJECT-TYPE ifEntry 10"},
		},
	}
	return NewInfo([]*Module{smi, ifMIB})
}

func TestResolveWalksParentsAndImports(t *testing.T) {
	info := buildInfo()

	got, err := Resolve(info, "IF-MIB::ifInOctets")
	require.NoError(t, err)
	assert.Equal(t, "1.3.6.1.2.1.2.2.1.10", got.String())

	got, err = Resolve(info, "IF-MIB::ifTable")
	require.NoError(t, err)
	assert.Equal(t, "1.3.6.1.2.1.2.2", got.String())
}

func TestResolveRejectsMalformedSymbolic(t *testing.T) {
	_, err := Resolve(buildInfo(), "ifInOctets")
	assert.Error(t, err)
}

func TestResolveUnknownModule(t *testing.T) {
	_, err := Resolve(buildInfo(), "NOSUCH-MIB::foo")
	assert.Error(t, err)
}

func TestResolveUnknownSymbol(t *testing.T) {
	_, err := Resolve(buildInfo(), "IF-MIB::noSuchSymbol")
	assert.Error(t, err)
}

func TestResolveDetectsCycles(t *testing.T) {
	cyclic := &Module{
		Name: "CYCLE-MIB",
		Assignments: []Assignment{
			{Name: "a", Value: "OBJECT-IDENTITY b 1"},
			{Name: "b", Value: "OBJECT-IDENTITY a 1"},
		},
	}
	info := NewInfo([]*Module{cyclic})

	_, err := Resolve(info, "CYCLE-MIB::a")
	assert.Error(t, err)
}

func TestResolveAllBuildsForwardAndReverseMaps(t *testing.T) {
	info := buildInfo()

	m, err := ResolveAll(info, []string{"IF-MIB::ifInOctets", "IF-MIB::ifTable"})
	require.NoError(t, err)

	o, ok := m.OID("IF-MIB::ifInOctets")
	require.True(t, ok)
	assert.Equal(t, "1.3.6.1.2.1.2.2.1.10", o.String())

	sym, ok := m.Symbol("1.3.6.1.2.1.2.2.1.10")
	require.True(t, ok)
	assert.Equal(t, "IF-MIB::ifInOctets", sym)

	assert.ElementsMatch(t, []string{"IF-MIB::ifInOctets", "IF-MIB::ifTable"}, m.Names())
}

func TestResolveAllFailsOnFirstUnresolvableName(t *testing.T) {
	_, err := ResolveAll(buildInfo(), []string{"IF-MIB::noSuchSymbol"})
	assert.Error(t, err)
}

func TestSplitSymbolic(t *testing.T) {
	module, symbol, err := SplitSymbolic("IF-MIB::ifInOctets")
	require.NoError(t, err)
	assert.Equal(t, "IF-MIB", module)
	assert.Equal(t, "ifInOctets", symbol)

	_, _, err = SplitSymbolic("ifInOctets")
	assert.Error(t, err)
}
