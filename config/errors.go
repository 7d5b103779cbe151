package config

import "errors"

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("config: invalid configuration")
