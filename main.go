// Command hachi runs CHIP-8 programs. It loads a raw ROM image, and either
// executes it against a display driver or prints a disassembly listing.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/hachivm/hachi/chip8"
	"github.com/hachivm/hachi/disasm"
	"github.com/hachivm/hachi/display"
	"github.com/hachivm/hachi/emulator"
	"github.com/hachivm/hachi/version"
)

var (
	romPath     = flag.String("f", "", "chip8 rom image file path")
	cpuHz       = flag.Int("cpu", emulator.DefaultCPUHz, "instruction rate in hz")
	timerHz     = flag.Int("tick", emulator.DefaultTimerHz, "timer tick rate in hz")
	driverName  = flag.String("driver", "sdl", "display driver ("+strings.Join(display.Names(), ", ")+")")
	keysPath    = flag.String("keys", "", "JSON key bindings file")
	listing     = flag.Bool("disasm", false, "print a disassembly listing instead of running")
	startPaused = flag.Bool("s", false, "start paused in single-step mode")
	trace       = flag.Bool("trace", false, "log every executed instruction")
	debug       = flag.Bool("debug", false, "debug log output")
	quiet       = flag.Bool("quiet", false, "errors only")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func init() {
	// SDL requires its calls to stay on the startup thread.
	runtime.LockOSThread()
}

func newLogger() *log.Logger {
	cfg := log.DefaultConfig()
	if *debug || *trace {
		cfg.Level = log.DebugLevel
	} else if *quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Banner())
		return
	}

	logger := newLogger()
	if err := run(logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(logger *log.Logger) error {
	if *romPath == "" {
		flag.Usage()
		return fmt.Errorf("no rom image given, use -f")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		return fmt.Errorf("reading rom image: %w", err)
	}

	if *listing {
		return disasm.Program(bytes.NewReader(rom), os.Stdout)
	}

	vm := chip8.New()
	if err := vm.LoadProgram(rom); err != nil {
		return fmt.Errorf("loading %s: %w", *romPath, err)
	}

	drv, err := display.New(*driverName)
	if err != nil {
		return err
	}
	if *keysPath != "" {
		km, err := display.LoadKeymap(*keysPath)
		if err != nil {
			return err
		}
		ks, ok := drv.(display.KeymapSetter)
		if !ok {
			return fmt.Errorf("driver %s does not support custom key bindings", drv.Name())
		}
		ks.SetKeymap(km)
	}

	logger.Info("starting",
		log.String("rom", *romPath),
		log.String("driver", drv.Name()),
		log.String("version", version.String()))

	emu := emulator.New(vm, drv, logger, emulator.Config{
		CPUHz:       *cpuHz,
		TimerHz:     *timerHz,
		Trace:       *trace,
		StartPaused: *startPaused,
	})
	return emu.Run(app.Context())
}
