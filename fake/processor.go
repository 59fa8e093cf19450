// File: fake/processor.go
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync"

	"github.com/momentics/lnet/api"
)

// Processor is a recording api.BufferProcessor. Output is staged by the
// test through StageOutput; everything the core does to the processor is
// observable afterwards.
type Processor struct {
	mu          sync.Mutex
	input       []byte
	inputCalls  []int
	out         []byte // nil = none staged; empty non-nil = fully drained
	beforeWrite int
	flushed     bool
	closed      bool
	ops         []string // hook invocation order: "input", "beforeWrite"

	owner api.Channel
	cb    api.WriteCallback
}

// NewProcessor creates a processor with an input region of the given
// capacity.
func NewProcessor(inputSize int) *Processor {
	return &Processor{input: make([]byte, inputSize)}
}

// NewProcessorFactory returns a factory handing out fresh fakes and
// records every processor it created, in order.
func NewProcessorFactory(inputSize int) (*ProcessorFactory, api.BufferProcessorFactory) {
	f := &ProcessorFactory{inputSize: inputSize}
	return f, f
}

// ProcessorFactory records the processors it created.
type ProcessorFactory struct {
	mu        sync.Mutex
	inputSize int
	created   []*Processor
}

// NewBufferProcessor implements api.BufferProcessorFactory.
func (f *ProcessorFactory) NewBufferProcessor(api.Channel) api.BufferProcessor {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := NewProcessor(f.inputSize)
	f.created = append(f.created, p)
	return p
}

// Created returns every processor handed out so far.
func (f *ProcessorFactory) Created() []*Processor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Processor(nil), f.created...)
}

// StageOutput replaces the pending output with a copy of b.
func (p *Processor) StageOutput(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = append([]byte(nil), b...)
}

// InputBuffer implements api.BufferProcessor.
func (p *Processor) InputBuffer() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// OnInputAvailable records the byte count of each read.
func (p *Processor) OnInputAvailable(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputCalls = append(p.inputCalls, n)
	p.ops = append(p.ops, "input")
}

// InputCalls returns the recorded OnInputAvailable counts.
func (p *Processor) InputCalls() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.inputCalls...)
}

// OnBeforeWrite counts staging hook invocations.
func (p *Processor) OnBeforeWrite() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.beforeWrite++
	p.ops = append(p.ops, "beforeWrite")
}

// Ops returns the hook invocation order observed so far.
func (p *Processor) Ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ops...)
}

// BeforeWriteCalls returns how often OnBeforeWrite ran.
func (p *Processor) BeforeWriteCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beforeWrite
}

// OutputBuffer implements api.BufferProcessor.
func (p *Processor) OutputBuffer() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out
}

// ConsumeOutput advances the staged output. A fully consumed buffer stays
// non-nil so the drained-empty path is exercised.
func (p *Processor) ConsumeOutput(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.out) {
		n = len(p.out)
	}
	p.out = p.out[n:]
}

// FlushThenClose implements api.BufferProcessor.
func (p *Processor) FlushThenClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushed = true
}

// CloseImmediately implements api.BufferProcessor.
func (p *Processor) CloseImmediately() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Flushed reports whether FlushThenClose ran.
func (p *Processor) Flushed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushed
}

// ClosedImmediately reports whether CloseImmediately ran.
func (p *Processor) ClosedImmediately() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// BindOwner implements api.BufferProcessor.
func (p *Processor) BindOwner(ch api.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owner = ch
}

// Owner returns the bound channel.
func (p *Processor) Owner() api.Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// BindWriteCallback implements api.BufferProcessor.
func (p *Processor) BindWriteCallback(cb api.WriteCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb = cb
}

// WriteCallback returns the callback the core bound, so tests can invoke
// the out-of-band write path directly.
func (p *Processor) WriteCallback() api.WriteCallback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cb
}
