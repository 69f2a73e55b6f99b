package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"

	tonegen "github.com/QEStudios/ToneGenerator"
	"github.com/QEStudios/ToneGenerator/config"
	"github.com/QEStudios/ToneGenerator/oscillator"
	"github.com/QEStudios/ToneGenerator/tone"
)

// exitUsage is the exit status for a malformed command line.
const exitUsage = 100

var (
	logger *log.Logger
	stderr io.Writer = os.Stderr
)

func main() {
	logger = log.New(os.Stdout, "", log.Ldate|log.Ltime)
	os.Exit(run(os.Args[1:]))
}

// usageError marks a command line that could not be understood.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// kindFlag is a boolean flag that selects a waveform when set.
// Several of them share one target, so the last one on the command line wins.
// Setting it to false drops back to sine if it had selected the waveform.
type kindFlag struct {
	target *oscillator.Kind
	kind   oscillator.Kind
	set    bool
}

func (f *kindFlag) String() string {
	return strconv.FormatBool(f.set)
}

func (f *kindFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	switch {
	case v:
		*f.target = f.kind
	case *f.target == f.kind:
		*f.target = oscillator.Sine
	}
	f.set = v
	return nil
}

func (f *kindFlag) Type() string {
	return "bool"
}

// invocation is a parsed command line.
type invocation struct {
	kind       oscillator.Kind
	configPath string
	path       string // Empty when the path should come from a dialog.
	tones      []tone.Spec
	useDialog  bool
	stream     bool
	debug      bool

	// Overrides for the loaded configuration, applied only if the flag was given.
	rate, width           *int
	volume, attack, decay *float64
	unclamped             *bool
	seed                  *uint64
}

func newFlagSet(inv *invocation) *pflag.FlagSet {
	fs := pflag.NewFlagSet("tonegen", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	inv.kind = oscillator.Sine
	for _, k := range []struct {
		name, shorthand string
		kind            oscillator.Kind
	}{
		{"sine", "S", oscillator.Sine},
		{"square", "Q", oscillator.Square},
		{"triangle", "T", oscillator.Triangle},
		{"noise", "N", oscillator.Noise},
	} {
		f := fs.VarPF(&kindFlag{target: &inv.kind, kind: k.kind}, k.name, k.shorthand, "generate a "+k.name+" wave")
		f.NoOptDefVal = "true"
	}

	inv.rate = fs.Int("rate", 0, "frame rate in Hz (default from config, 44100)")
	inv.width = fs.Int("width", 0, "sample width in bytes, 1 or 2 (default from config, 2)")
	inv.volume = fs.Float64("volume", 0, "peak volume, 1 is full scale (default from config, 0.5)")
	inv.attack = fs.Float64("attack", 0, "attack time in seconds (default from config, 0.01)")
	inv.decay = fs.Float64("decay", 0, "decay time in seconds (default from config, 0.7)")
	inv.unclamped = fs.Bool("unclamped", false, "let out of range samples wrap instead of saturating")
	inv.seed = fs.Uint64("seed", 0, "seed for reproducible noise")
	fs.BoolVar(&inv.stream, "stream", false, "do not declare the length up front, patch the header when done")
	fs.StringVarP(&inv.configPath, "config", "c", "", "YAML or JSON config file")
	fs.BoolVar(&inv.useDialog, "dialog", false, "choose the output file with a save dialog")
	fs.BoolVarP(&inv.debug, "debug", "d", false, "dump the resolved settings")
	return fs
}

// parseArgs parses the command line. Apart from pflag.ErrHelp, every error it returns is a *usageError.
func parseArgs(args []string) (*invocation, *pflag.FlagSet, error) {
	inv := &invocation{}
	fs := newFlagSet(inv)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, fs, err
		}
		return nil, fs, usagef("%v", err)
	}

	rest := fs.Args()
	if !inv.useDialog {
		if len(rest) == 0 {
			return nil, fs, usagef("missing output path")
		}
		inv.path, rest = rest[0], rest[1:]
	}
	if len(rest) == 0 {
		return nil, fs, usagef("no tones given")
	}

	tones, err := tone.ParseAll(rest)
	if err != nil {
		return nil, fs, usagef("%v", err)
	}
	inv.tones = tones
	return inv, fs, nil
}

func printUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(stderr, "usage: tonegen {-S|-Q|-T|-N} [flags] OUTPUT_PATH TONE...\n\n")
	fmt.Fprintf(stderr, "TONE is a note name (A4, ^C5 for C#5) or a frequency in Hz.\n\n")
	fmt.Fprint(stderr, fs.FlagUsages())
}

// settings resolves the configuration: defaults, then the config file and environment, then flags.
func settings(inv *invocation, fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: inv.configPath})
	if err != nil {
		return nil, err
	}

	if fs.Changed("rate") {
		cfg.FrameRate = *inv.rate
	}
	if fs.Changed("width") {
		cfg.SampleWidth = *inv.width
	}
	if fs.Changed("volume") {
		cfg.Volume = *inv.volume
	}
	if fs.Changed("attack") {
		cfg.Attack = *inv.attack
	}
	if fs.Changed("decay") {
		cfg.Decay = *inv.decay
	}
	if fs.Changed("unclamped") {
		cfg.Clamp = !*inv.unclamped
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string) int {
	inv, fs, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		printUsage(fs)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "tonegen: %v\n", err)
		printUsage(fs)
		return exitUsage
	}

	cfg, err := settings(inv, fs)
	if err != nil {
		logger.Printf("config error: %v", err)
		return 1
	}

	if inv.useDialog && inv.path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			logger.Printf("failed to get current working directory: %v", err)
			return 1
		}
		inv.path, err = choosePath(cwd)
		if err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				logger.Printf("User cancelled the file dialog")
			} else {
				logger.Printf("failed to determine output path: %v", err)
			}
			return 1
		}
	}

	g := tonegen.NewGenerator(cfg, logger)
	g.Stream = inv.stream
	if fs.Changed("seed") {
		g.Seed = inv.seed
	}

	if inv.debug {
		logger.Printf("Settings:\n%s", spew.Sdump(cfg, inv.kind, inv.tones))
	}

	if err := g.Generate(inv.path, inv.kind, inv.tones); err != nil {
		logger.Printf("%v", err)
		return 1
	}
	return 0
}

// choosePath asks for the output file with a native save dialog.
func choosePath(cwd string) (string, error) {
	path, err := dialog.
		File().
		Title("Save tone").
		Filter("WAV audio (*.wav)", "wav").
		SetStartDir(cwd).
		Save()
	if err != nil {
		// Propagate the error. Caller will check for dialog.ErrCancelled.
		return "", err
	}

	// Check for empty path just in case.
	if path == "" {
		return "", dialog.ErrCancelled
	}
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		path += ".wav"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if _, err := os.Stat(filepath.Dir(absPath)); err != nil {
		return "", fmt.Errorf("dialog selection invalid: %w", err)
	}
	return absPath, nil
}
