// Package provider resolves configured provider/model pairs and defines
// the completion capability the pipeline calls. Actual LLM clients are
// external; they plug in by implementing Provider.
package provider
