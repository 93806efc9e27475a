package collector

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/damianoneill/snmpcollect/config"
	"github.com/damianoneill/snmpcollect/mib"
	"github.com/damianoneill/snmpcollect/oid"
	"github.com/damianoneill/snmpcollect/snmp"
)

// collectEntry is one instance column and the set of value columns
// joined against it. Several data-entry names that share an instance
// column collapse into a single entry, so the column is walked once per
// cycle regardless of how many data entries reference it.
type collectEntry struct {
	instance oid.OID
	values   []oid.OID
}

// Collector runs one device's infinite polling loop.
type Collector struct {
	device  config.Device
	entries []*collectEntry
	factory snmp.SessionFactory
	results chan<- Reading
	log     *logrus.Entry
}

// New builds a Collector for device, resolving its declared data-entry
// names into instance/value OID groups. data and oids must already
// have been validated against device.
func New(device config.Device, data map[string]config.DataEntry, oids *mib.Map, factory snmp.SessionFactory, results chan<- Reading, log *logrus.Entry) (*Collector, error) {
	byInstance := make(map[string]*collectEntry)
	var entries []*collectEntry

	for _, name := range device.Collect {
		d, ok := data[name]
		if !ok {
			return nil, errors.Errorf("collector: device %s references undefined data entry %q", device.Host, name)
		}

		instanceOID, ok := oids.OID(d.Instance)
		if !ok {
			return nil, errors.Errorf("collector: no resolved oid for instance %q", d.Instance)
		}

		e, ok := byInstance[instanceOID.String()]
		if !ok {
			e = &collectEntry{instance: instanceOID}
			byInstance[instanceOID.String()] = e
			entries = append(entries, e)
		}

		for _, valueName := range d.Values {
			valueOID, ok := oids.OID(valueName)
			if !ok {
				return nil, errors.Errorf("collector: no resolved oid for value %q", valueName)
			}
			e.values = appendIfAbsent(e.values, valueOID)
		}
	}

	return &Collector{
		device:  device,
		entries: entries,
		factory: factory,
		results: results,
		log:     log.WithField("device", device.Host),
	}, nil
}

func appendIfAbsent(values []oid.OID, v oid.OID) []oid.OID {
	for _, existing := range values {
		if existing.Equal(v) {
			return values
		}
	}
	return append(values, v)
}

// Run opens a session to the device and loops forever, pacing cycles to
// the device's configured interval. It returns only on a
// transport-level error; the caller's supervisor is responsible for
// restarting it after backoff.
func (c *Collector) Run(ctx context.Context) error {
	host, port := targetOf(c.device)

	session, err := c.factory.NewSession(ctx, host,
		snmp.Port(port),
		snmp.Timeout(time.Duration(c.device.TimeoutSeconds)*time.Second),
		snmp.USM(c.device.SecName, authProtocolOf(c.device.AuthProtocol), c.device.AuthPassword,
			privProtocolOf(c.device.PrivProtocol), c.device.PrivPassword),
	)
	if err != nil {
		return errors.Wrapf(err, "collector: opening session to %s", c.device.Host)
	}
	defer session.Close()

	interval := time.Duration(c.device.IntervalSeconds) * time.Second

	for {
		cycleLog := c.log.WithField("cycle", uuid.NewString())
		t0 := time.Now()

		for _, e := range c.entries {
			if err := c.pollEntry(ctx, session, e); err != nil {
				return err
			}
		}

		elapsed := time.Since(t0)
		cycleLog.WithField("elapsed", elapsed).Debug("collector: cycle complete")
		if elapsed < interval {
			time.Sleep(interval - elapsed)
			continue
		}
		cycleLog.WithField("elapsed", elapsed).WithField("interval", interval).
			Warn("collector: cycle exceeded interval, starting next cycle immediately")
	}
}

func (c *Collector) pollEntry(ctx context.Context, session snmp.Session, e *collectEntry) error {
	names, err := session.BulkWalk(ctx, e.instance)
	if err != nil {
		return err
	}

	for _, n := range names {
		if n.VarBind.Value.Kind != snmp.KindString {
			c.log.WithField("oid", n.VarBind.OID.String()).
				Error("collector: instance column value is not a string, abandoning column")
			return nil
		}
	}

	for _, valueOID := range e.values {
		if err := c.pollValue(ctx, session, names, valueOID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) pollValue(ctx context.Context, session snmp.Session, names []snmp.TimestampedVarBind, valueOID oid.OID) error {
	values, err := session.BulkWalk(ctx, valueOID)
	if err != nil {
		return err
	}

	byIndex := make(map[uint64]snmp.TimestampedVarBind, len(values))
	for _, v := range values {
		byIndex[v.VarBind.OID.Last()] = v
	}

	var missing []snmp.TimestampedVarBind
	for _, n := range names {
		v, ok := byIndex[n.VarBind.OID.Last()]
		if !ok {
			missing = append(missing, n)
			continue
		}
		c.emit(ctx, Reading{Device: c.device.Host, Timestamp: v.Timestamp, KeyBind: n.VarBind, ValueBind: v.VarBind})
	}

	if len(missing) == 0 {
		return nil
	}
	if len(values) == 0 {
		c.log.WithField("oid", valueOID.String()).Warn("collector: value column empty on device, skipping workaround")
		return nil
	}

	return c.workaround(ctx, session, values[0].VarBind.OID, missing)
}

// workaround implements the HPE Comware fallback: reconstruct the
// missing rows' OIDs from a sibling's full OID, issue a single
// GetRequest, and rewrite NoSuchInstance responses to zero.
func (c *Collector) workaround(ctx context.Context, session snmp.Session, sample oid.OID, missing []snmp.TimestampedVarBind) error {
	reconstructed := make([]oid.OID, len(missing))
	for i, m := range missing {
		reconstructed[i] = sample.WithLast(m.VarBind.OID.Last())
	}

	got, err := session.Get(ctx, reconstructed)
	if err != nil {
		return err
	}

	for i, g := range got {
		if i >= len(missing) {
			break
		}
		v := g.VarBind.Value
		if v.Kind == snmp.KindNoSuchInstance {
			v = snmp.Value{Kind: snmp.KindBigCounter, BigCounter: 0}
		}
		c.emit(ctx, Reading{
			Device:    c.device.Host,
			Timestamp: g.Timestamp,
			KeyBind:   missing[i].VarBind,
			ValueBind: snmp.VarBind{OID: g.VarBind.OID, Value: v},
		})
	}
	return nil
}

func (c *Collector) emit(ctx context.Context, r Reading) {
	select {
	case c.results <- r:
	case <-ctx.Done():
	}
}

func targetOf(d config.Device) (string, uint16) {
	if host, portStr, err := net.SplitHostPort(d.Host); err == nil {
		if p, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			return host, uint16(p)
		}
	}
	if d.Port != 0 {
		return d.Host, d.Port
	}
	return d.Host, 161
}

func authProtocolOf(s string) snmp.AuthProtocol {
	if s == "MD5" {
		return snmp.AuthMD5
	}
	return snmp.AuthSHA
}

func privProtocolOf(s string) snmp.PrivProtocol {
	if s == "DES" {
		return snmp.PrivDES
	}
	return snmp.PrivAES
}
