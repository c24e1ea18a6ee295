// Package server exposes the converter over HTTP with gin.
//
// Routes:
//
//	GET  /health   liveness probe, {"status":"ok","version":"1.0.0"}
//	POST /convert  multipart upload, returns application/pdf
//	*              static files from the public directory
//
// Every upload of a request is saved under a per-request directory (Scope)
// that is removed when the handler returns, on success and on failure. A
// cron-scheduled Janitor removes directories orphaned by a crash.
package server
