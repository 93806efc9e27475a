package collector

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damianoneill/snmpcollect/config"
	"github.com/damianoneill/snmpcollect/mib"
	"github.com/damianoneill/snmpcollect/oid"
	"github.com/damianoneill/snmpcollect/snmp"
)

// fakeSession is a hand-written test double: BulkWalk returns responses
// keyed by the root requested and Get returns one canned reply, letting
// tests exercise the join and workaround logic without a live device.
type fakeSession struct {
	bulkWalks map[string][]snmp.TimestampedVarBind
	getCalls  [][]oid.OID
	getReply  []snmp.TimestampedVarBind
}

func (f *fakeSession) Get(_ context.Context, oids []oid.OID) ([]snmp.TimestampedVarBind, error) {
	f.getCalls = append(f.getCalls, oids)
	return f.getReply, nil
}

func (f *fakeSession) BulkWalk(_ context.Context, start oid.OID) ([]snmp.TimestampedVarBind, error) {
	return f.bulkWalks[start.String()], nil
}

func (f *fakeSession) Close() error { return nil }

// row appends a row index to a table-column OID, producing the kind of
// OID a bulk-walk response binding carries.
func row(column oid.OID, idx uint64) oid.OID {
	return append(column.Clone(), idx)
}

func stringVarBind(o oid.OID, s string) snmp.TimestampedVarBind {
	return snmp.TimestampedVarBind{Timestamp: time.Unix(1700000000, 0), VarBind: snmp.VarBind{OID: o, Value: snmp.Value{Kind: snmp.KindString, String: []byte(s)}}}
}

func counterVarBind(o oid.OID, v uint32) snmp.TimestampedVarBind {
	return snmp.TimestampedVarBind{Timestamp: time.Unix(1700000000, 0), VarBind: snmp.VarBind{OID: o, Value: snmp.Value{Kind: snmp.KindCounter, Counter: v}}}
}

func TestPollEntryJoinsInstanceAndValueColumns(t *testing.T) {
	instanceOID := oid.MustParse("1.3.6.1.2.1.31.1.1.1.1")
	valueOID := oid.MustParse("1.3.6.1.2.1.2.2.1.10")

	session := &fakeSession{
		bulkWalks: map[string][]snmp.TimestampedVarBind{
			instanceOID.String(): {
				stringVarBind(row(instanceOID, 1), "Eth0"),
				stringVarBind(row(instanceOID, 2), "Eth1"),
			},
			valueOID.String(): {
				counterVarBind(row(valueOID, 1), 100),
				counterVarBind(row(valueOID, 2), 200),
			},
		},
	}

	results := make(chan Reading, 10)
	c := &Collector{
		device:  config.Device{Host: "router-A"},
		entries: []*collectEntry{{instance: instanceOID, values: []oid.OID{valueOID}}},
		results: results,
		log:     logrus.NewEntry(logrus.New()),
	}

	require.NoError(t, c.pollEntry(context.Background(), session, c.entries[0]))
	close(results)

	var got []Reading
	for r := range results {
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "Eth0", string(got[0].KeyBind.Value.String))
	assert.EqualValues(t, 100, got[0].ValueBind.Value.Counter)
	assert.Equal(t, "Eth1", string(got[1].KeyBind.Value.String))
	assert.EqualValues(t, 200, got[1].ValueBind.Value.Counter)
}

func TestPollValueAppliesHPEComwareWorkaround(t *testing.T) {
	instanceOID := oid.MustParse("1.3.6.1.2.1.31.1.1.1.1")
	valueOID := oid.MustParse("1.3.6.1.2.1.2.2.1.10")

	names := []snmp.TimestampedVarBind{
		stringVarBind(row(instanceOID, 1), "Eth0"),
		stringVarBind(row(instanceOID, 2), "Eth1"),
	}

	session := &fakeSession{
		bulkWalks: map[string][]snmp.TimestampedVarBind{
			valueOID.String(): {
				counterVarBind(row(valueOID, 1), 100),
			},
		},
		getReply: []snmp.TimestampedVarBind{
			{Timestamp: time.Unix(1700000001, 0), VarBind: snmp.VarBind{OID: row(valueOID, 2), Value: snmp.Value{Kind: snmp.KindNoSuchInstance}}},
		},
	}

	results := make(chan Reading, 10)
	c := &Collector{
		device:  config.Device{Host: "router-A"},
		results: results,
		log:     logrus.NewEntry(logrus.New()),
	}

	require.NoError(t, c.pollValue(context.Background(), session, names, valueOID))
	close(results)

	var got []Reading
	for r := range results {
		got = append(got, r)
	}
	require.Len(t, got, 2)

	require.Len(t, session.getCalls, 1)
	assert.Equal(t, row(valueOID, 2).String(), session.getCalls[0][0].String())

	// the second reading is the reconstructed one, rewritten to zero
	workaround := got[1]
	assert.Equal(t, "Eth1", string(workaround.KeyBind.Value.String))
	assert.Equal(t, snmp.KindBigCounter, workaround.ValueBind.Value.Kind)
	assert.EqualValues(t, 0, workaround.ValueBind.Value.BigCounter)
}

func TestPollValueSkipsWorkaroundWhenTableEmpty(t *testing.T) {
	instanceOID := oid.MustParse("1.3.6.1.2.1.31.1.1.1.1")
	valueOID := oid.MustParse("1.3.6.1.2.1.2.2.1.10")

	names := []snmp.TimestampedVarBind{stringVarBind(row(instanceOID, 1), "Eth0")}
	session := &fakeSession{bulkWalks: map[string][]snmp.TimestampedVarBind{}}

	results := make(chan Reading, 10)
	c := &Collector{device: config.Device{Host: "router-A"}, results: results, log: logrus.NewEntry(logrus.New())}

	require.NoError(t, c.pollValue(context.Background(), session, names, valueOID))
	assert.Empty(t, session.getCalls)
	close(results)
	assert.Empty(t, results)
}

func TestPollEntryAbandonsNonStringInstanceColumn(t *testing.T) {
	instanceOID := oid.MustParse("1.3.6.1.2.1.31.1.1.1.1")

	session := &fakeSession{
		bulkWalks: map[string][]snmp.TimestampedVarBind{
			instanceOID.String(): {counterVarBind(row(instanceOID, 1), 1)},
		},
	}

	results := make(chan Reading, 10)
	c := &Collector{
		device:  config.Device{Host: "router-A"},
		entries: []*collectEntry{{instance: instanceOID}},
		results: results,
		log:     logrus.NewEntry(logrus.New()),
	}

	require.NoError(t, c.pollEntry(context.Background(), session, c.entries[0]))
	close(results)
	assert.Empty(t, results)
}

func TestNewCollapsesSharedInstanceColumns(t *testing.T) {
	oids, err := mib.ResolveAll(testInfo(), []string{
		"IF-MIB::ifName", "IF-MIB::ifInOctets", "IF-MIB::ifOutOctets",
	})
	require.NoError(t, err)

	data := map[string]config.DataEntry{
		"in":  {Table: true, Instance: "IF-MIB::ifName", Values: []string{"IF-MIB::ifInOctets"}},
		"out": {Table: true, Instance: "IF-MIB::ifName", Values: []string{"IF-MIB::ifOutOctets"}},
	}
	device := config.Device{Host: "router-A", Collect: []string{"in", "out"}}

	c, err := New(device, data, oids, nil, nil, logrus.NewEntry(logrus.New()))
	require.NoError(t, err)
	require.Len(t, c.entries, 1)
	assert.Len(t, c.entries[0].values, 2)
}

func testInfo() *mib.Info {
	text := `
IF-MIB DEFINITIONS ::= BEGIN
IMPORTS mib-2 FROM SNMPv2-SMI;
interfaces OBJECT IDENTIFIER ::= { mib-2 2 }
ifXTable OBJECT IDENTIFIER ::= { interfaces 1 }
ifName OBJECT-TYPE ::= { ifXTable 1 }
ifTable OBJECT IDENTIFIER ::= { interfaces 2 }
ifEntry OBJECT IDENTIFIER ::= { ifTable 1 }
ifInOctets OBJECT-TYPE ::= { ifEntry 10 }
ifOutOctets OBJECT-TYPE ::= { ifEntry 16 }
END
`
	ifMod, err := mib.Parse(text)
	if err != nil {
		panic(err)
	}

	smiText := `
SNMPv2-SMI DEFINITIONS ::= BEGIN
org OBJECT IDENTIFIER ::= { iso 3 }
dod OBJECT IDENTIFIER ::= { org 6 }
internet OBJECT IDENTIFIER ::= { dod 1 }
mgmt OBJECT IDENTIFIER ::= { internet 2 }
mib-2 OBJECT IDENTIFIER ::= { mgmt 1 }
END
`
	smiMod, err := mib.Parse(smiText)
	if err != nil {
		panic(err)
	}

	return mib.NewInfo([]*mib.Module{ifMod, smiMod})
}
