// Package collector drives one polling loop per device: it bulk-walks
// each declared instance column, joins the matching value columns by
// row index, and emits Readings for the formatter to convert into
// Carbon metrics.
package collector

import (
	"time"

	"github.com/damianoneill/snmpcollect/snmp"
)

// Reading is one (instance, value) pair harvested from a device during
// a polling cycle.
type Reading struct {
	Device    string
	Timestamp time.Time
	KeyBind   snmp.VarBind
	ValueBind snmp.VarBind
}
