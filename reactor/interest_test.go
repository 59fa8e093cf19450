package reactor_test

import (
	"testing"

	"github.com/momentics/lnet/reactor"
)

func TestInterestMaskOps(t *testing.T) {
	i := reactor.Read
	i = i.With(reactor.Write)
	if !i.Has(reactor.Read) || !i.Has(reactor.Write) {
		t.Fatalf("mask = %v after set", i)
	}
	i = i.Without(reactor.Write)
	if i.Has(reactor.Write) {
		t.Fatalf("mask = %v after clear", i)
	}
	if !i.Has(reactor.Read) {
		t.Fatal("clearing WRITE must not clear READ")
	}
	if i.Has(reactor.Read.With(reactor.Write)) {
		t.Fatal("Has must require all queried bits")
	}
}
