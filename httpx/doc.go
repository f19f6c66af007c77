// Package httpx wraps net/http with the pieces an API client needs:
// - a base URL that relative request paths resolve against
// - default headers copied into every request (request headers win)
// - an error type carrying status, API error message and a limited body
// - hook points for logging without hard dependencies
//
// A Client is immutable once constructed and safe for concurrent use.
package httpx
