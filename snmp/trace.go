package snmp

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Trace instruments a Session's lifecycle. The hooks generalise the
// connect/write/read split the underlying transport used to expose as
// separate phases; gosnmp's synchronous request methods collapse write
// and read into a single round trip, so RequestDone reports on the pair.
type Trace struct {
	ConnectStart func(target string)
	ConnectDone  func(target string, err error)
	RequestDone  func(target, op string, d time.Duration, err error)
}

func (t *Trace) connectStart(target string) {
	if t != nil && t.ConnectStart != nil {
		t.ConnectStart(target)
	}
}

func (t *Trace) connectDone(target string, err error) {
	if t != nil && t.ConnectDone != nil {
		t.ConnectDone(target, err)
	}
}

func (t *Trace) request(target, op string, start time.Time, err error) {
	if t != nil && t.RequestDone != nil {
		t.RequestDone(target, op, time.Since(start), err)
	}
}

// DefaultLoggingHooks logs every connect and request at debug level, and
// every error at warn level, via the package-wide logrus logger fields.
func DefaultLoggingHooks(log *logrus.Entry) *Trace {
	return &Trace{
		ConnectStart: func(target string) {
			log.WithField("target", target).Debug("snmp: connecting")
		},
		ConnectDone: func(target string, err error) {
			if err != nil {
				log.WithField("target", target).WithError(err).Warn("snmp: connect failed")
				return
			}
			log.WithField("target", target).Debug("snmp: connected")
		},
		RequestDone: func(target, op string, d time.Duration, err error) {
			fields := logrus.Fields{"target": target, "op": op, "elapsed": d}
			if err != nil {
				log.WithFields(fields).WithError(err).Warn("snmp: request failed")
				return
			}
			log.WithFields(fields).Debug("snmp: request ok")
		},
	}
}

// NoOpLoggingHooks discards every event; used by tests and by callers
// that install their own instrumentation.
func NoOpLoggingHooks() *Trace {
	return &Trace{}
}
