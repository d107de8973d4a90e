// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber app; this package only defines the listen port,
// the API key and the timeouts it is built with.
package server
