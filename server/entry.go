// File: server/entry.go
// Author: momentics <momentics@gmail.com>
//
// Registry entries: the tagged listener/connection variant keyed by fd.

package server

import (
	"sync"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/reactor"
)

type entryKind uint8

const (
	entryListener entryKind = iota
	entryConn
)

// conn couples a data channel with the buffer processor attached to it for
// the connection's whole lifetime. writeMu serializes the write triple
// (stage output, write socket, update interest) between the dispatch
// goroutine and any out-of-band invoker of the write callback.
type conn struct {
	ch      api.Channel
	proc    api.BufferProcessor
	writeMu sync.Mutex
}

// entry is one registry slot. Listener entries carry no processor;
// connection entries carry exactly one. All fields except the immutable
// kind/fd/ln/conn are guarded by the server's registry mutex.
type entry struct {
	kind     entryKind
	fd       int
	interest reactor.Interest
	valid    bool

	ln   api.ListenChannel // kind == entryListener
	conn *conn             // kind == entryConn
}
