package pool_test

import (
	"testing"

	"github.com/momentics/lnet/pool"
)

func TestBytePoolHandsOutFixedSize(t *testing.T) {
	bp := pool.NewBytePool(4096)
	buf := bp.GetBuffer()
	if len(buf) != 4096 {
		t.Fatalf("len = %d, want 4096", len(buf))
	}
	bp.PutBuffer(buf)
	if bp.Size() != 4096 {
		t.Errorf("size = %d", bp.Size())
	}
}

func TestBytePoolAcceptsResliced(t *testing.T) {
	bp := pool.NewBytePool(128)
	buf := bp.GetBuffer()
	bp.PutBuffer(buf[:10]) // same backing array, restored on reuse
	again := bp.GetBuffer()
	if len(again) != 128 {
		t.Errorf("reused buffer len = %d, want 128", len(again))
	}
}

func TestBytePoolDropsForeignSlices(t *testing.T) {
	bp := pool.NewBytePool(64)
	bp.PutBuffer(make([]byte, 16)) // wrong capacity, silently dropped
	if got := bp.GetBuffer(); len(got) != 64 {
		t.Errorf("len = %d, want 64", len(got))
	}
}
