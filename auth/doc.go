// Package auth guards the gateway's request surface. Scope is
// deliberately small: a bearer-token authenticator and a disabled mode
// for development deployments. Disabling auth does not loosen TLS
// verification on the cache connection; those are independent switches.
package auth
