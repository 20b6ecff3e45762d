package window

// keyTracker turns the platform's press/repeat/release stream into single press edges.
type keyTracker struct {
	held map[uint32]bool
}

// press records a key going down.
//
// Returns:
//   - bool: true only if the key was not already held
func (k *keyTracker) press(key uint32) bool {
	if k.held == nil {
		k.held = make(map[uint32]bool)
	}
	if k.held[key] {
		return false
	}
	k.held[key] = true
	return true
}

func (k *keyTracker) release(key uint32) {
	delete(k.held, key)
}

// dragTracker accumulates cursor deltas while at least one drag button is down.
type dragTracker struct {
	buttons int
	hasLast bool
	lastX   float64
	lastY   float64
}

func (d *dragTracker) down() {
	d.buttons++
}

func (d *dragTracker) up() {
	if d.buttons > 0 {
		d.buttons--
	}
	if d.buttons == 0 {
		d.hasLast = false
	}
}

// move records a cursor position.
//
// Returns:
//   - dx, dy: the delta since the previous position
//   - bool: true if a drag is active and a previous position exists
func (d *dragTracker) move(x, y float64) (float32, float32, bool) {
	if d.buttons == 0 {
		return 0, 0, false
	}
	if !d.hasLast {
		d.lastX, d.lastY, d.hasLast = x, y, true
		return 0, 0, false
	}
	dx, dy := float32(x-d.lastX), float32(y-d.lastY)
	d.lastX, d.lastY = x, y
	return dx, dy, true
}
