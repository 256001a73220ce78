// Package server assembles the inkwell HTTP server.
//
// It owns the store, wires the identity-resolution middleware around the
// HTML and JSON surfaces, serves static assets and health endpoints, prunes
// expired sessions in the background, and handles graceful shutdown.
package server
