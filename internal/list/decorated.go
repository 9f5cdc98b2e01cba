package list

// DecoratedModel prepends a fixed run of renderer-owned header items (storage
// summary, filter chips, ...) to a Model. The mutator keeps writing to the
// inner model; this wrapper shifts every event past the header prefix so both
// coordinate systems stay consistent.
type DecoratedModel struct {
	inner     *Model
	headers   []Item
	observers []ModelObserver
}

func NewDecoratedModel(inner *Model) *DecoratedModel {
	d := &DecoratedModel{inner: inner}
	inner.AddObserver(d)
	return d
}

// Destroy detaches from the inner model.
func (d *DecoratedModel) Destroy() { d.inner.RemoveObserver(d) }

func (d *DecoratedModel) HeaderCount() int { return len(d.headers) }

func (d *DecoratedModel) Size() int { return len(d.headers) + d.inner.Size() }

func (d *DecoratedModel) Get(i int) Item {
	if i < len(d.headers) {
		return d.headers[i]
	}
	return d.inner.Get(i - len(d.headers))
}

func (d *DecoratedModel) Items() []Item {
	out := make([]Item, 0, d.Size())
	out = append(out, d.headers...)
	out = append(out, d.inner.Items()...)
	return out
}

func (d *DecoratedModel) Props() *Properties { return d.inner.Props() }

// SetHeaders replaces the decoration prefix.
func (d *DecoratedModel) SetHeaders(items []Item) {
	old := len(d.headers)
	d.headers = items
	if old == len(items) {
		if old > 0 {
			d.notify(func(o ModelObserver) { o.ItemsChanged(0, old) })
		}
		return
	}
	if old > 0 {
		d.notify(func(o ModelObserver) { o.ItemsRemoved(0, old) })
	}
	if len(items) > 0 {
		d.notify(func(o ModelObserver) { o.ItemsInserted(0, len(items)) })
	}
}

func (d *DecoratedModel) AddObserver(o ModelObserver) {
	for _, cur := range d.observers {
		if cur == o {
			return
		}
	}
	d.observers = append(d.observers, o)
}

func (d *DecoratedModel) RemoveObserver(o ModelObserver) {
	for i, cur := range d.observers {
		if cur == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Inner-model events, re-published shifted by the header count.

func (d *DecoratedModel) ItemsInserted(index, count int) {
	d.notify(func(o ModelObserver) { o.ItemsInserted(index+len(d.headers), count) })
}

func (d *DecoratedModel) ItemsRemoved(index, count int) {
	d.notify(func(o ModelObserver) { o.ItemsRemoved(index+len(d.headers), count) })
}

func (d *DecoratedModel) ItemsChanged(index, count int) {
	d.notify(func(o ModelObserver) { o.ItemsChanged(index+len(d.headers), count) })
}

func (d *DecoratedModel) PropertiesChanged() {
	d.notify(func(o ModelObserver) { o.PropertiesChanged() })
}

func (d *DecoratedModel) notify(fn func(ModelObserver)) {
	obs := make([]ModelObserver, len(d.observers))
	copy(obs, d.observers)
	for _, o := range obs {
		fn(o)
	}
}
