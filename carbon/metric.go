package carbon

import "time"

// Metric is one line destined for the Carbon/Graphite sink: a fully
// composed (but not yet prefixed) dotted path, a decimal value, and the
// wall-clock time the underlying reading was taken.
type Metric struct {
	Timestamp time.Time
	Metric    string
	Value     string
}
