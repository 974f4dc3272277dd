package touch

// IRQState is an opaque saved interrupt state.
type IRQState uintptr

// Interrupts masks and restores interrupt delivery. On TinyGo it maps onto
// runtime/interrupt.Disable and runtime/interrupt.Restore.
type Interrupts interface {
	Disable() IRQState
	Restore(state IRQState)
}

type noInterrupts struct{}

func (noInterrupts) Disable() IRQState  { return 0 }
func (noInterrupts) Restore(s IRQState) {}

// NoInterrupts is an Interrupts that does nothing. Use it on hosts and in
// simulations where nothing can preempt the loop.
var NoInterrupts Interrupts = noInterrupts{}

// critical runs fn with interrupts disabled and restores the previous state
// on every exit path, panics included.
//
// The masked window is bounded by the charge loop: at most 255 iterations.
func critical(irq Interrupts, fn func()) {
	state := irq.Disable()
	defer irq.Restore(state)
	fn()
}
