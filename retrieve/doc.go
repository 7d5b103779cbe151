// Package retrieve defines the reference-document lookup the pipeline
// consults before calling a provider. Real RAG indexes are external; a
// naive in-memory retriever ships for wiring and tests.
package retrieve
