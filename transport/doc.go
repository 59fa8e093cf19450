// File: transport/doc.go
// Author: momentics <momentics@gmail.com>

// Package transport implements api.Channel and api.ListenChannel over raw
// TCP socket descriptors, so the reactor can key its registry by fd and
// drive the sockets in non-blocking mode.
package transport
