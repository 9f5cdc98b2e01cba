package home

// Dispatcher queues work for the next turn of the single event goroutine.
// The TUI drains it after every update cycle; tests drain it explicitly.
// A nil *Dispatcher runs posted work immediately.
type Dispatcher struct {
	queue []func()
}

func (d *Dispatcher) Post(fn func()) {
	if d == nil {
		fn()
		return
	}
	d.queue = append(d.queue, fn)
}

// Drain runs queued work, including work posted while draining.
func (d *Dispatcher) Drain() {
	if d == nil {
		return
	}
	for len(d.queue) > 0 {
		fn := d.queue[0]
		d.queue = d.queue[1:]
		fn()
	}
}

// Pending reports whether a drain would do anything.
func (d *Dispatcher) Pending() bool { return d != nil && len(d.queue) > 0 }
