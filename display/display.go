// Package display abstracts the presentation layer: something that renders
// the 64x32 framebuffer, produces keypad and control events, and sounds a
// tone while the sound timer runs.
//
// Drivers register themselves by name via Register, and the CLI picks one
// with New, so adding an output backend never touches the emulator core.
package display

import (
	"fmt"
	"sort"
	"strings"
)

// Driver is the interface a presentation backend must implement. The
// emulator calls Render only when the machine reports a display change and
// PollEvents once per instruction slot; neither may block.
type Driver interface {
	// Init acquires the backing resource (window, terminal, ...).
	Init() error

	// Render draws one frame. fb is row-major, 64x32, one byte per pixel,
	// nonzero meaning lit.
	Render(fb []uint8) error

	// PollEvents returns all pending input events without blocking.
	PollEvents() []Event

	// SetTone turns the beep tone on or off. Called at the timer rate.
	SetTone(active bool)

	// Name returns the registered driver name.
	Name() string

	// Close releases the backing resource.
	Close() error
}

// Event is a single input occurrence delivered by a driver.
type Event interface{}

// KeyEvent is a keypad key going down or up.
type KeyEvent struct {
	Key     uint8 // 0x0-0xF
	Pressed bool
}

// QuitEvent asks the emulator to stop.
type QuitEvent struct{}

// ResetEvent asks the emulator to reset the machine.
type ResetEvent struct{}

// PauseEvent resumes a paused machine, or pauses a running one.
type PauseEvent struct{}

// StepEvent executes a single instruction while paused; on a running
// machine it pauses instead.
type StepEvent struct{}

// Constructor builds a fresh, uninitialized driver instance.
type Constructor func() Driver

var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Register makes a driver available by name. Drivers call it from init.
func Register(name string, ctor Constructor) {
	handlers.m[strings.ToLower(name)] = ctor
}

// New returns an instance of the named driver.
func New(name string) (Driver, error) {
	ctor, ok := handlers.m[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown display driver %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered driver names, sorted.
func Names() []string {
	names := make([]string, 0, len(handlers.m))
	for name := range handlers.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeymapSetter is implemented by drivers whose key bindings can be
// reconfigured, such as the terminal driver.
type KeymapSetter interface {
	SetKeymap(Keymap)
}
