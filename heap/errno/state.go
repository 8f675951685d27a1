package errno

import "sync/atomic"

// State is one execution context's status slot. The zero value holds Ok.
// Writes are single atomic stores.
type State struct {
	v int32
}

// Set overwrites the slot.
func (s *State) Set(c Code) {
	atomic.StoreInt32(&s.v, int32(c))
}

// Get returns the current code without side effects.
func (s *State) Get() Code {
	return Code(atomic.LoadInt32(&s.v))
}

// Location returns the address of the slot, for callers following the C
// "pointer to errno" convention. Concurrent readers should go through Get.
func (s *State) Location() *int32 {
	return &s.v
}
