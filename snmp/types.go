// Package snmp drives an SNMPv3 USM-secured session to a single device,
// exposing the Get and BulkWalk primitives the collector needs. The wire
// protocol, USM key localization and BER encoding are delegated to
// github.com/gosnmp/gosnmp as an external client library; this package
// specifies only the operations below.
package snmp

import (
	"math/big"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/pkg/errors"

	"github.com/damianoneill/snmpcollect/oid"
)

// Kind identifies the SNMP variable-value shape carried by a VarBind.
type Kind int

// Variable-value kinds the core interprets; anything else unmarshals to
// KindOther and is dropped (with a warning) by the formatter.
const (
	KindInt Kind = iota
	KindCounter
	KindUnsignedInt
	KindBigCounter
	KindString
	KindObjectID
	KindNoSuchInstance
	KindEndOfMibView
	KindOther
)

// Value is a tagged variant over the SNMP value types the core cares
// about. Only the field matching Kind is populated.
type Value struct {
	Kind        Kind
	Int         int32
	Counter     uint32
	UnsignedInt uint32
	BigCounter  uint64
	String      []byte
	ObjectID    oid.OID
}

// VarBind pairs an OID with the value an agent returned for it.
type VarBind struct {
	OID   oid.OID
	Value Value
}

// TimestampedVarBind is a VarBind paired with the wall-clock time its
// response was received.
type TimestampedVarBind struct {
	Timestamp time.Time
	VarBind   VarBind
}

func fromPDU(p gosnmp.SnmpPDU) (VarBind, error) {
	o, err := oid.Parse(p.Name)
	if err != nil {
		return VarBind{}, errors.Wrapf(err, "snmp: malformed oid %q in response", p.Name)
	}
	v, err := valueFromPDU(p)
	if err != nil {
		return VarBind{}, err
	}
	return VarBind{OID: o, Value: v}, nil
}

func valueFromPDU(p gosnmp.SnmpPDU) (Value, error) {
	switch p.Type {
	case gosnmp.Integer:
		return Value{Kind: KindInt, Int: int32(toInt64(p.Value))}, nil
	case gosnmp.Counter32:
		return Value{Kind: KindCounter, Counter: uint32(toInt64(p.Value))}, nil
	case gosnmp.Gauge32, gosnmp.TimeTicks:
		return Value{Kind: KindUnsignedInt, UnsignedInt: uint32(toInt64(p.Value))}, nil
	case gosnmp.Counter64:
		return Value{Kind: KindBigCounter, BigCounter: uint64(toInt64(p.Value))}, nil
	case gosnmp.OctetString, gosnmp.IPAddress, gosnmp.Opaque:
		b, _ := p.Value.([]byte)
		return Value{Kind: KindString, String: b}, nil
	case gosnmp.ObjectIdentifier:
		s, _ := p.Value.(string)
		o, err := oid.Parse(s)
		if err != nil {
			return Value{}, errors.Wrapf(err, "snmp: malformed object-identifier value %q", s)
		}
		return Value{Kind: KindObjectID, ObjectID: o}, nil
	case gosnmp.NoSuchInstance:
		return Value{Kind: KindNoSuchInstance}, nil
	case gosnmp.EndOfMibView:
		return Value{Kind: KindEndOfMibView}, nil
	default:
		return Value{Kind: KindOther}, nil
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case *big.Int:
		return n.Int64()
	default:
		return 0
	}
}
