// File: processor/doc.go
// Author: momentics <momentics@gmail.com>

// Package processor ships ready-made api.BufferProcessor implementations.
// The reactor core works against the interface only; these types cover the
// common cases and serve as templates for protocol-specific processors.
package processor
