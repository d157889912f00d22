// Package httpx builds the HTTP client shared by every search backend.
//
// The client picks a user agent per request from a small pool, retries
// replayable requests (GET/HEAD without a body) a bounded number of times on
// transport errors, and can route all traffic through a proxy. A proxy forces
// one connection per request.
package httpx
