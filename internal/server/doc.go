// Package server wires the echo HTTP server: the Twitch OAuth login, callback,
// and refresh routes, plus health, metrics, and version endpoints.
package server
