// File: reactor/doc.go
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness demultiplexer behind the lnet
// server core: a platform-neutral interface over the OS readiness facility
// (epoll on Linux) with an explicit wake primitive callable from any
// goroutine.
package reactor
