package snmp

import (
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
)

func TestSessionOptionsOverrideDefaults(t *testing.T) {
	cfg := defaultConfig
	opts := []SessionOption{
		Port(1161),
		Timeout(2 * time.Second),
		Retries(3),
		MaxRepetitions(10),
		USM("operator", AuthMD5, "authpass", PrivDES, "privpass"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	assert.EqualValues(t, 1161, cfg.port)
	assert.Equal(t, 2*time.Second, cfg.timeout)
	assert.Equal(t, 3, cfg.retries)
	assert.EqualValues(t, 10, cfg.maxRepetitions)
	assert.Equal(t, "operator", cfg.securityName)
	assert.Equal(t, AuthMD5, cfg.authProtocol)
	assert.Equal(t, PrivDES, cfg.privProtocol)
}

func TestMsgFlagsAuthPrivWhenPrivPasswordSet(t *testing.T) {
	cfg := defaultConfig
	cfg.privPassword = "secret"
	assert.Equal(t, gosnmp.AuthPriv, msgFlags(cfg))
}

func TestMsgFlagsAuthNoPrivWhenNoPrivPassword(t *testing.T) {
	cfg := defaultConfig
	assert.Equal(t, gosnmp.AuthNoPriv, msgFlags(cfg))
}

func TestAuthAndPrivProtocolMapping(t *testing.T) {
	assert.Equal(t, gosnmp.SHA, authProtocolOf(AuthSHA))
	assert.Equal(t, gosnmp.MD5, authProtocolOf(AuthMD5))
	assert.Equal(t, gosnmp.AES, privProtocolOf(PrivAES))
	assert.Equal(t, gosnmp.DES, privProtocolOf(PrivDES))
}
