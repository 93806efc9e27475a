package snmp

import (
	"context"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/pkg/errors"
)

// AuthProtocol is the USM authentication algorithm for a session.
type AuthProtocol int

const (
	AuthSHA AuthProtocol = iota
	AuthMD5
)

// PrivProtocol is the USM privacy (encryption) algorithm for a session.
type PrivProtocol int

const (
	PrivAES PrivProtocol = iota
	PrivDES
)

const (
	defaultPort           = 161
	defaultTimeout        = 10 * time.Second
	defaultRetries        = 1
	defaultMaxRepetitions = 25
)

type sessionConfig struct {
	port           uint16
	timeout        time.Duration
	retries        int
	maxRepetitions uint8

	securityName string
	authProtocol AuthProtocol
	authPassword string
	privProtocol PrivProtocol
	privPassword string

	trace *Trace
}

var defaultConfig = sessionConfig{
	port:           defaultPort,
	timeout:        defaultTimeout,
	retries:        defaultRetries,
	maxRepetitions: defaultMaxRepetitions,
	authProtocol:   AuthSHA,
	privProtocol:   PrivAES,
	trace:          NoOpLoggingHooks(),
}

// SessionOption configures a Session at construction time.
type SessionOption func(*sessionConfig)

// Port overrides the default SNMP UDP port (161).
func Port(p uint16) SessionOption {
	return func(c *sessionConfig) { c.port = p }
}

// Timeout overrides the per-request timeout.
func Timeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) { c.timeout = d }
}

// Retries overrides the per-request retry count.
func Retries(n int) SessionOption {
	return func(c *sessionConfig) { c.retries = n }
}

// MaxRepetitions overrides the max-repetitions value sent with every
// GetBulkRequest issued by BulkWalk.
func MaxRepetitions(n uint8) SessionOption {
	return func(c *sessionConfig) { c.maxRepetitions = n }
}

// USM sets the SNMPv3 User-Based Security Model credentials: security
// name, auth protocol/password, and priv protocol/password.
func USM(securityName string, authProtocol AuthProtocol, authPassword string, privProtocol PrivProtocol, privPassword string) SessionOption {
	return func(c *sessionConfig) {
		c.securityName = securityName
		c.authProtocol = authProtocol
		c.authPassword = authPassword
		c.privProtocol = privProtocol
		c.privPassword = privPassword
	}
}

// LoggingHooks installs a Trace to instrument the session's connect and
// request calls.
func LoggingHooks(t *Trace) SessionOption {
	return func(c *sessionConfig) { c.trace = t }
}

// SessionFactory opens USM-secured sessions to devices.
type SessionFactory interface {
	NewSession(ctx context.Context, host string, opts ...SessionOption) (Session, error)
}

type factoryImpl struct{}

// NewFactory returns a SessionFactory backed by gosnmp.
func NewFactory() SessionFactory {
	return &factoryImpl{}
}

func (f *factoryImpl) NewSession(ctx context.Context, host string, opts ...SessionOption) (Session, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.securityName == "" {
		return nil, errors.New("snmp: USM security name is required")
	}

	conn := &gosnmp.GoSNMP{
		Target:        host,
		Port:          cfg.port,
		Transport:     "udp",
		Version:       gosnmp.Version3,
		Timeout:       cfg.timeout,
		Retries:       cfg.retries,
		MaxOids:       gosnmp.MaxOids,
		SecurityModel: gosnmp.UserSecurityModel,
		MsgFlags:      msgFlags(cfg),
		SecurityParameters: &gosnmp.UsmSecurityParameters{
			UserName:                 cfg.securityName,
			AuthenticationProtocol:   authProtocolOf(cfg.authProtocol),
			AuthenticationPassphrase: cfg.authPassword,
			PrivacyProtocol:          privProtocolOf(cfg.privProtocol),
			PrivacyPassphrase:        cfg.privPassword,
		},
		Context: ctx,
	}

	cfg.trace.connectStart(host)
	err := conn.Connect()
	cfg.trace.connectDone(host, err)
	if err != nil {
		return nil, errors.Wrapf(err, "snmp: connect to %s", host)
	}

	return &sessionImpl{conn: conn, maxRepetitions: cfg.maxRepetitions, trace: cfg.trace}, nil
}

func msgFlags(cfg sessionConfig) gosnmp.SnmpV3MsgFlags {
	if cfg.privPassword == "" {
		return gosnmp.AuthNoPriv
	}
	return gosnmp.AuthPriv
}

func authProtocolOf(p AuthProtocol) gosnmp.SnmpV3AuthProtocol {
	if p == AuthMD5 {
		return gosnmp.MD5
	}
	return gosnmp.SHA
}

func privProtocolOf(p PrivProtocol) gosnmp.SnmpV3PrivProtocol {
	if p == PrivDES {
		return gosnmp.DES
	}
	return gosnmp.AES
}
