// Package api implements the JSON HTTP surface of the chat service:
// POST /chat for retrieval-augmented answers and GET /health for probes.
//
// Error contract: a missing message yields 400 with a fixed English body;
// any processing failure yields 500 with a generic message localized to
// the caller's query language. Internal error details never leave the
// server.
package api
