// Package observe provides telemetry for the query gateway: OpenTelemetry
// tracing and metrics plus a JSON structured logger with credential
// redaction. An Observer is built once from configuration and its
// primitives are injected into the pipeline and cache layers.
package observe
