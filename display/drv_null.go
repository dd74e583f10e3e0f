package display

// nullDriver renders nowhere. It records what it was asked to do so that
// tests can drive the emulator loop headless.
type nullDriver struct {
	frames  [][]uint8
	tone    bool
	pending []Event
	closed  bool
}

func init() {
	Register("null", func() Driver { return &nullDriver{} })
}

func (d *nullDriver) Init() error { return nil }

func (d *nullDriver) Render(fb []uint8) error {
	frame := make([]uint8, len(fb))
	copy(frame, fb)
	d.frames = append(d.frames, frame)
	return nil
}

func (d *nullDriver) PollEvents() []Event {
	evs := d.pending
	d.pending = nil
	return evs
}

func (d *nullDriver) SetTone(active bool) { d.tone = active }

func (d *nullDriver) Name() string { return "null" }

func (d *nullDriver) Close() error {
	d.closed = true
	return nil
}

// Inject queues events for the next PollEvents call.
func (d *nullDriver) Inject(evs ...Event) {
	d.pending = append(d.pending, evs...)
}
