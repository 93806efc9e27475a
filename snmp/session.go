package snmp

import (
	"context"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/pkg/errors"

	"github.com/damianoneill/snmpcollect/oid"
)

// Session is a USM-secured conversation with one device. Implementations
// must be safe for use by a single goroutine at a time; the collector
// never shares a Session across devices or issues concurrent calls on
// one.
type Session interface {
	// Get issues a single GetRequest for the given OIDs and returns one
	// binding per requested OID, in request order.
	Get(ctx context.Context, oids []oid.OID) ([]TimestampedVarBind, error)

	// BulkWalk retrieves every instance under start via repeated
	// GetBulkRequests, stopping when a returned OID no longer has start
	// as an ancestor, an EndOfMibView value appears, or a response
	// carries no bindings at all.
	BulkWalk(ctx context.Context, start oid.OID) ([]TimestampedVarBind, error)

	// Close releases the underlying transport. Idempotent.
	Close() error
}

type sessionImpl struct {
	conn           *gosnmp.GoSNMP
	maxRepetitions uint8
	trace          *Trace
}

func (s *sessionImpl) Get(ctx context.Context, oids []oid.OID) ([]TimestampedVarBind, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strs := make([]string, len(oids))
	for i, o := range oids {
		strs[i] = "." + o.String()
	}

	start := time.Now()
	pkt, err := s.conn.Get(strs)
	s.trace.request(s.conn.Target, "get", start, err)
	if err != nil {
		return nil, errors.Wrapf(err, "snmp: get %v from %s", strs, s.conn.Target)
	}

	ts := time.Now()
	out := make([]TimestampedVarBind, 0, len(pkt.Variables))
	for _, pdu := range pkt.Variables {
		vb, err := fromPDU(pdu)
		if err != nil {
			return nil, err
		}
		out = append(out, TimestampedVarBind{Timestamp: ts, VarBind: vb})
	}
	return out, nil
}

func (s *sessionImpl) BulkWalk(ctx context.Context, start oid.OID) ([]TimestampedVarBind, error) {
	terminator := start.NextSibling()

	var results []TimestampedVarBind
	next := start

	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		reqStart := time.Now()
		pkt, err := s.conn.GetBulk([]string{"." + next.String()}, 0, s.maxRepetitions)
		s.trace.request(s.conn.Target, "bulkwalk", reqStart, err)
		if err != nil {
			return nil, errors.Wrapf(err, "snmp: bulkwalk %s from %s", start, s.conn.Target)
		}

		if len(pkt.Variables) == 0 {
			return results, nil
		}

		vbs := make([]VarBind, 0, len(pkt.Variables))
		for _, pdu := range pkt.Variables {
			vb, err := fromPDU(pdu)
			if err != nil {
				return nil, err
			}
			vbs = append(vbs, vb)
		}

		page, lastOID, done := appendBulkPage(results, vbs, start, terminator, time.Now())
		results = page
		if done || lastOID == nil {
			return results, nil
		}
		next = lastOID
	}
}

// appendBulkPage applies the bulk-walk termination rule to one GetBulk
// response page: a binding is appended only while it is still a
// descendant of start, sorts before terminator, and is not
// EndOfMibView. The binding that triggers termination is never
// appended. lastOID is the last appended binding's OID, used by the
// caller to resume the walk from, and is nil if the page terminated on
// its very first binding.
func appendBulkPage(results []TimestampedVarBind, vbs []VarBind, start, terminator oid.OID, ts time.Time) (out []TimestampedVarBind, lastOID oid.OID, done bool) {
	for _, vb := range vbs {
		if !vb.OID.HasPrefix(start) || vb.OID.GreaterOrEqual(terminator) || vb.Value.Kind == KindEndOfMibView {
			return results, lastOID, true
		}
		results = append(results, TimestampedVarBind{Timestamp: ts, VarBind: vb})
		lastOID = vb.OID
	}
	return results, lastOID, false
}

func (s *sessionImpl) Close() error {
	return s.conn.Close()
}
