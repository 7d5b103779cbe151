// Package pipeline orchestrates one query end to end: filter the raw
// query, fetch conversation history, retrieve reference documents, call
// the provider, and record both turns back into the conversation cache.
//
// The flow is strictly linear per request. History-read failures degrade
// per configured policy; provider failures terminate the request without
// retries; append failures after a produced answer never fail the caller.
package pipeline
