package carbon

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// approxBytesPerMetric estimates a Metric's in-memory footprint for the
// sender's backoff telemetry. It is a rough constant, not a measurement
// of actual heap usage.
const approxBytesPerMetric = 96

// Sender owns a single persistent TCP stream to a Carbon/Graphite
// endpoint. Metrics are delivered via an unbounded queue; Run never
// returns successfully — on a write error it requeues the in-flight
// metric and returns the error so its supervisor can reconnect.
type Sender struct {
	addr   string
	prefix string
	in     chan Metric
	out    chan Metric
	depth  int64
	log    *logrus.Entry
}

// NewSender builds a Sender against graphite_server:graphite_port. The
// queue between Send and Run is unbounded by design: a pump goroutine
// buffers in a growable slice so Send never blocks on a stalled Carbon
// connection, rather than a fixed-capacity buffer.
func NewSender(host string, port int, prefix string, log *logrus.Entry) *Sender {
	s := &Sender{
		addr:   net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		prefix: prefix,
		in:     make(chan Metric),
		out:    make(chan Metric),
		log:    log,
	}
	go s.pump()
	return s
}

// pump is the sole owner of the unbounded queue. It always has a
// receive ready on s.in, so Send returns as soon as the metric is
// appended in memory, regardless of how long Run is stalled delivering
// the head of the queue to s.out.
func (s *Sender) pump() {
	var queue []Metric
	for {
		if len(queue) == 0 {
			queue = append(queue, <-s.in)
			atomic.StoreInt64(&s.depth, int64(len(queue)))
			continue
		}
		select {
		case m := <-s.in:
			queue = append(queue, m)
			atomic.StoreInt64(&s.depth, int64(len(queue)))
		case s.out <- queue[0]:
			queue = queue[1:]
			atomic.StoreInt64(&s.depth, int64(len(queue)))
		}
	}
}

// Send enqueues a metric for delivery. It only blocks long enough for
// the pump goroutine to accept it into the in-memory queue, never on
// Carbon connectivity.
func (s *Sender) Send(m Metric) {
	s.in <- m
}

// QueueDepth reports the number of metrics currently buffered, used by
// the supervisor's backoff telemetry.
func (s *Sender) QueueDepth() int {
	return int(atomic.LoadInt64(&s.depth))
}

// QueueBytesEstimate reports an approximate memory footprint for the
// currently buffered metrics, for memory-pressure backoff telemetry.
func (s *Sender) QueueBytesEstimate() int64 {
	return atomic.LoadInt64(&s.depth) * approxBytesPerMetric
}

// Run connects to the Carbon endpoint and streams metrics until a
// write fails, at which point it requeues the in-flight metric, closes
// the connection, and returns the error.
func (s *Sender) Run() error {
	conn, err := net.Dial("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("carbon: connect %s: %w", s.addr, err)
	}
	defer conn.Close()

	s.log.WithField("addr", s.addr).Info("carbon: connected")

	for m := range s.out {
		line := fmt.Sprintf("%s.%s %s %d\n", s.prefix, m.Metric, m.Value, m.Timestamp.Unix())
		if _, err := conn.Write([]byte(line)); err != nil {
			s.Send(m) // reinjection: never drop an accepted metric silently
			return fmt.Errorf("carbon: write to %s: %w", s.addr, err)
		}
	}
	return nil
}

// RunSupervised runs Run in a restart loop: on error, sleeps one second,
// logs queue depth and an approximate buffered-bytes estimate, and
// reconnects. It never returns.
func (s *Sender) RunSupervised() {
	for {
		err := s.Run()
		s.log.WithError(err).
			WithField("queue_depth", s.QueueDepth()).
			WithField("queue_bytes_estimate", s.QueueBytesEstimate()).
			Warn("carbon: sender lost connection, reconnecting in 1s")
		time.Sleep(time.Second)
	}
}
