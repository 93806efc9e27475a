package carbon

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/damianoneill/snmpcollect/collector"
	"github.com/damianoneill/snmpcollect/mib"
	"github.com/damianoneill/snmpcollect/snmp"
)

// Formatter turns collector.Reading values into Metric lines, resolving
// the value binding's OID back to its MIB symbol via the shared oid-map.
type Formatter struct {
	oids *mib.Map
	log  *logrus.Entry
}

// NewFormatter builds a Formatter against the process-wide resolved
// oid-map.
func NewFormatter(oids *mib.Map, log *logrus.Entry) *Formatter {
	return &Formatter{oids: oids, log: log}
}

// Format converts one Reading into a Metric, or returns ok=false if the
// reading's bindings are not in a numeric/stringly shape the protocol
// can forward — dropped with a warning, not fatal.
func (f *Formatter) Format(r collector.Reading) (Metric, bool) {
	valSymbol, ok := f.oids.Symbol(r.ValueBind.OID.Parent().String())
	if !ok {
		f.log.WithField("oid", r.ValueBind.OID.String()).Warn("carbon: no symbolic name for value oid, dropping reading")
		return Metric{}, false
	}
	_, valName, err := mib.SplitSymbolic(valSymbol)
	if err != nil {
		f.log.WithField("symbol", valSymbol).Warn("carbon: malformed symbolic name, dropping reading")
		return Metric{}, false
	}

	keyString, ok := keyToString(r.KeyBind.Value)
	if !ok {
		f.log.WithField("device", r.Device).Warn("carbon: key binding is not a renderable value, dropping reading")
		return Metric{}, false
	}

	valueNumeric, ok := valueToDecimal(r.ValueBind.Value)
	if !ok {
		f.log.WithField("device", r.Device).Warn("carbon: value binding is not numeric, dropping reading")
		return Metric{}, false
	}

	metricName := Sanitize(r.Device) + "." + Sanitize(keyString) + "." + valName

	return Metric{
		Timestamp: r.Timestamp,
		Metric:    metricName,
		Value:     valueNumeric,
	}, true
}

func keyToString(v snmp.Value) (string, bool) {
	switch v.Kind {
	case snmp.KindInt:
		return strconv.FormatInt(int64(v.Int), 10), true
	case snmp.KindCounter:
		return strconv.FormatUint(uint64(v.Counter), 10), true
	case snmp.KindUnsignedInt:
		return strconv.FormatUint(uint64(v.UnsignedInt), 10), true
	case snmp.KindBigCounter:
		return strconv.FormatUint(v.BigCounter, 10), true
	case snmp.KindString:
		return string(v.String), true
	case snmp.KindObjectID:
		return v.ObjectID.String(), true
	default:
		return "", false
	}
}

func valueToDecimal(v snmp.Value) (string, bool) {
	switch v.Kind {
	case snmp.KindInt:
		return strconv.FormatInt(int64(v.Int), 10), true
	case snmp.KindCounter:
		return strconv.FormatUint(uint64(v.Counter), 10), true
	case snmp.KindUnsignedInt:
		return strconv.FormatUint(uint64(v.UnsignedInt), 10), true
	case snmp.KindBigCounter:
		return strconv.FormatUint(v.BigCounter, 10), true
	default:
		return "", false
	}
}
