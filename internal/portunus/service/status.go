package service

import (
	"sync/atomic"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// StatusBoard holds the latest published Status. The control loop is the
// only writer; status servers read it from their own goroutines.
type StatusBoard struct {
	current atomic.Pointer[types.Status]
}

func NewStatusBoard() *StatusBoard {
	b := &StatusBoard{}
	b.current.Store(&types.Status{State: "booting"})
	return b
}

func (b *StatusBoard) Publish(s types.Status) {
	b.current.Store(&s)
}

func (b *StatusBoard) Status() types.Status {
	p := b.current.Load()
	if p == nil {
		return types.Status{State: "booting"}
	}
	return *p
}
