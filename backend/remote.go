package backend

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRemoteTimeout bounds every remote operation when no timeout is configured.
const DefaultRemoteTimeout = 5 * time.Second

// AuthMode is the client-certificate policy for the remote backend. It
// must match the server-side policy; a mismatch surfaces as a connection
// failure (ErrUnavailable), not a distinct error.
type AuthMode string

const (
	AuthModeNone     AuthMode = "none"
	AuthModeOptional AuthMode = "optional"
	AuthModeRequired AuthMode = "required"
)

// ParseAuthMode parses an auth mode string from configuration.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(s) {
	case AuthModeNone, AuthModeOptional, AuthModeRequired:
		return AuthMode(s), nil
	case "":
		return AuthModeNone, nil
	default:
		return "", fmt.Errorf("%w: unknown auth_mode %q", ErrBadConfig, s)
	}
}

// RemoteConfig configures the TLS-secured remote backend.
//
// Certificate, key, and CA material are file paths supplied out of band.
// Plaintext connections are not supported: the remote backend always
// negotiates TLS.
type RemoteConfig struct {
	Host string
	Port int

	// Timeout bounds every operation. Default: DefaultRemoteTimeout.
	Timeout time.Duration

	// CertPath and KeyPath are the client certificate pair. Both or
	// neither must be set; AuthModeRequired demands both.
	CertPath string
	KeyPath  string

	// CACertPath is the CA bundle used to verify the server.
	CACertPath string

	// AuthMode is the client-certificate policy.
	AuthMode AuthMode

	// PasswordPath optionally points at a file holding the server password.
	PasswordPath string
}

// Remote is a backend stored in a remote redis-protocol server over TLS.
type Remote struct {
	client  *redis.Client
	timeout time.Duration
	addr    string
}

// NewRemote validates cfg, builds the TLS transport, and returns a
// connected client. Configuration problems are reported here (wrapping
// ErrBadConfig); reachability problems surface later, per operation, as
// ErrUnavailable.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: remote host is required", ErrBadConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: remote port %d out of range", ErrBadConfig, cfg.Port)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}

	tlsCfg, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	password := ""
	if cfg.PasswordPath != "" {
		raw, err := os.ReadFile(cfg.PasswordPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading password file: %v", ErrBadConfig, err)
		}
		password = strings.TrimSpace(string(raw))
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		TLSConfig:    tlsCfg,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	return &Remote{client: client, timeout: cfg.Timeout, addr: addr}, nil
}

func buildTLSConfig(cfg RemoteConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("%w: reading CA bundle: %v", ErrBadConfig, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: CA bundle %q contains no certificates", ErrBadConfig, cfg.CACertPath)
		}
		tlsCfg.RootCAs = pool
	}

	hasPair := cfg.CertPath != "" && cfg.KeyPath != ""
	if (cfg.CertPath == "") != (cfg.KeyPath == "") {
		return nil, fmt.Errorf("%w: client cert and key must both be set or both be empty", ErrBadConfig)
	}
	if cfg.AuthMode == AuthModeRequired && !hasPair {
		return nil, fmt.Errorf("%w: auth_mode required demands a client certificate pair", ErrBadConfig)
	}
	if hasPair {
		pair, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: loading client certificate: %v", ErrBadConfig, err)
		}
		tlsCfg.Certificates = []tls.Certificate{pair}
	}

	return tlsCfg, nil
}

// Get retrieves the value for key. A redis miss is (nil, false, nil);
// timeouts and connection failures wrap ErrUnavailable.
func (r *Remote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %q: %v", ErrUnavailable, key, err)
	}
	return val, true, nil
}

// Put stores value under key. No TTL is set here; server-side expiry
// policy is a deployment concern.
func (r *Remote) Put(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Evict removes key. Idempotent.
func (r *Remote) Evict(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: evict %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Ping verifies connectivity. Used by health checks.
func (r *Remote) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Remote) Close() error {
	return r.client.Close()
}

// String identifies the backend in logs and health reports.
func (r *Remote) String() string {
	return "remote(" + r.addr + ")"
}

// Ensure Remote implements Backend
var _ Backend = (*Remote)(nil)
