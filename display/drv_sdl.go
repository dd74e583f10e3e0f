//go:build cgo

package display

import (
	"encoding/binary"
	"math"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	displayScale = 10
	windowW      = 64 * displayScale
	windowH      = 32 * displayScale

	audioRate    = 60
	audioSamples = 64
)

// sdlDriver renders into an SDL window and sounds a sine tone through an
// SDL audio device while the sound timer runs.
type sdlDriver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	audio    sdl.AudioDeviceID
}

var scancodeKeys = map[int]uint8{
	sdl.SCANCODE_1: 0x1, sdl.SCANCODE_2: 0x2, sdl.SCANCODE_3: 0x3, sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4, sdl.SCANCODE_W: 0x5, sdl.SCANCODE_E: 0x6, sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7, sdl.SCANCODE_S: 0x8, sdl.SCANCODE_D: 0x9, sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA, sdl.SCANCODE_X: 0x0, sdl.SCANCODE_C: 0xB, sdl.SCANCODE_V: 0xF,
}

func init() {
	Register("sdl", func() Driver { return &sdlDriver{} })
}

func (d *sdlDriver) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return err
	}

	window, err := sdl.CreateWindow("hachi", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		windowW, windowH, sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	d.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	d.renderer = renderer

	want := &sdl.AudioSpec{
		Freq:     audioSamples * audioRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  audioSamples,
	}
	have := &sdl.AudioSpec{}
	audio, err := sdl.OpenAudioDevice("", false, want, have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return err
	}
	d.audio = audio
	sdl.PauseAudioDevice(audio, false)

	return nil
}

func (d *sdlDriver) Render(fb []uint8) error {
	if err := d.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := d.renderer.Clear(); err != nil {
		return err
	}

	if err := d.renderer.SetDrawColor(0, 255, 0, 255); err != nil {
		return err
	}
	for y := int32(0); y < 32; y++ {
		for x := int32(0); x < 64; x++ {
			if fb[y*64+x] == 0 {
				continue
			}
			rect := sdl.Rect{X: x * displayScale, Y: y * displayScale, W: displayScale, H: displayScale}
			if err := d.renderer.FillRect(&rect); err != nil {
				return err
			}
		}
	}

	d.renderer.Present()
	return nil
}

func (d *sdlDriver) PollEvents() []Event {
	var out []Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			out = append(out, QuitEvent{})
		case *sdl.KeyboardEvent:
			pressed := ev.Type == sdl.KEYDOWN
			if key, ok := scancodeKeys[int(ev.Keysym.Scancode)]; ok {
				out = append(out, KeyEvent{Key: key, Pressed: pressed})
				continue
			}
			if !pressed {
				continue
			}
			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				out = append(out, QuitEvent{})
			case sdl.SCANCODE_SPACE:
				out = append(out, StepEvent{})
			case sdl.SCANCODE_RETURN:
				out = append(out, PauseEvent{})
			case sdl.SCANCODE_F5:
				out = append(out, ResetEvent{})
			}
		}
	}
	return out
}

// SetTone queues one timer interval worth of sine samples while the tone is
// active. Called at the timer rate, so the queue never runs dry mid-beep.
func (d *sdlDriver) SetTone(active bool) {
	if !active {
		return
	}
	samples := make([]byte, 4*audioSamples)
	for i := 0; i < len(samples); i += 4 {
		f := math.Sin(2.0 * math.Pi / 180.0 * float64(360*i/audioSamples))
		binary.LittleEndian.PutUint32(samples[i:], math.Float32bits(float32(f)))
	}
	// Queueing is best effort; a failed beep should not stop emulation.
	_ = sdl.QueueAudio(d.audio, samples)
}

func (d *sdlDriver) Name() string { return "sdl" }

func (d *sdlDriver) Close() error {
	if d.audio != 0 {
		sdl.CloseAudioDevice(d.audio)
	}
	if d.renderer != nil {
		_ = d.renderer.Destroy()
	}
	if d.window != nil {
		_ = d.window.Destroy()
	}
	sdl.Quit()
	return nil
}
