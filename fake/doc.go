// File: fake/doc.go
// Author: momentics <momentics@gmail.com>

// Package fake provides in-memory doubles for the lnet contracts: channels
// with scripted reads and bounded write capacity, a demultiplexer fed by
// the test, a recording processor and a recording event listener. They let
// the server core's dispatch, interest-toggling and close semantics run
// without sockets.
package fake
