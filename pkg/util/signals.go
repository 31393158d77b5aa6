package util

import "sync"

// SignalHandler receives the emitting entity plus any extra parameters.
type SignalHandler func(sender any, params ...any)

// Signals is a process-wide synchronous signal registry. Handlers run in
// the emitter's goroutine, in registration order; a handler that needs to
// be asynchronous spawns its own goroutine.
type Signals struct {
	mu       sync.RWMutex
	handlers map[string][]SignalHandler
}

var sig = &Signals{handlers: make(map[string][]SignalHandler)}

// Sig returns the global signal registry.
func Sig() *Signals { return sig }

func (s *Signals) Connect(name string, handler SignalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = append(s.handlers[name], handler)
}

func (s *Signals) Emit(name string, sender any, params ...any) {
	s.mu.RLock()
	hs := s.handlers[name]
	s.mu.RUnlock()
	for _, h := range hs {
		h(sender, params...)
	}
}

// Reset drops all registered handlers. Test helper.
func (s *Signals) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = make(map[string][]SignalHandler)
}
