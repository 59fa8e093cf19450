// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the contracts shared between the lnet reactor core,
// its transport channels, and the per-connection buffer processors supplied
// by the application.
//
// The reactor core only ever sees these interfaces. Concrete socket
// channels live in package transport, concrete processors in package
// processor, and test doubles in package fake.
package api
