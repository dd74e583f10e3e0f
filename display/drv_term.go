package display

import (
	"time"
	"unicode"

	"github.com/nsf/termbox-go"
)

// keyHold is how long a synthesized key press stays down. Terminals report
// key presses but no releases, so the driver auto-releases after a short
// window; repeated presses keep the key held.
const keyHold = 150 * time.Millisecond

// termDriver renders the framebuffer as cell blocks in the terminal via
// termbox. Each pixel is two cells wide to roughly square the aspect ratio.
type termDriver struct {
	keymap Keymap
	events chan termbox.Event
	held   map[uint8]time.Time
}

func init() {
	Register("term", func() Driver {
		return &termDriver{
			keymap: DefaultKeymap(),
			held:   make(map[uint8]time.Time),
		}
	})
}

func (d *termDriver) SetKeymap(km Keymap) { d.keymap = km }

func (d *termDriver) Init() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.HideCursor()

	d.events = make(chan termbox.Event, 64)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt || ev.Type == termbox.EventError {
				close(d.events)
				return
			}
			d.events <- ev
		}
	}()
	return nil
}

func (d *termDriver) Render(fb []uint8) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if fb[y*64+x] == 0 {
				continue
			}
			termbox.SetCell(2*x, y, '█', termbox.ColorGreen, termbox.ColorDefault)
			termbox.SetCell(2*x+1, y, '█', termbox.ColorGreen, termbox.ColorDefault)
		}
	}
	return termbox.Flush()
}

func (d *termDriver) PollEvents() []Event {
	var out []Event

	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return out
			}
			if e := d.translate(ev); e != nil {
				out = append(out, e)
			}
			continue
		default:
		}
		break
	}

	// Expire held keys.
	now := time.Now()
	for key, since := range d.held {
		if now.Sub(since) >= keyHold {
			delete(d.held, key)
			out = append(out, KeyEvent{Key: key, Pressed: false})
		}
	}
	return out
}

func (d *termDriver) translate(ev termbox.Event) Event {
	if ev.Type != termbox.EventKey {
		return nil
	}
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return QuitEvent{}
	case termbox.KeySpace:
		return StepEvent{}
	case termbox.KeyEnter:
		return PauseEvent{}
	case termbox.KeyF5:
		return ResetEvent{}
	}
	if key, ok := d.keymap[unicode.ToLower(ev.Ch)]; ok {
		d.held[key] = time.Now()
		return KeyEvent{Key: key, Pressed: true}
	}
	return nil
}

func (d *termDriver) SetTone(bool) {
	// Terminals have no tone worth sounding; the audio contract is
	// satisfied by the sdl driver.
}

func (d *termDriver) Name() string { return "term" }

func (d *termDriver) Close() error {
	termbox.Interrupt()
	termbox.Close()
	return nil
}
