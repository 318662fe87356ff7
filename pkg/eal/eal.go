// Package eal bootstraps the process-wide shared-memory runtime.
//
// The runtime is modeled on a DPDK environment abstraction layer: a process
// initializes it exactly once, as either the primary (which creates the
// hugepage-backed objects) or a secondary (which attaches to them). All
// configuration travels as an ordered argument vector so the init path is
// observable and testable independent of the config file.
package eal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/logging"
)

// ProcType selects the role of this process toward shared memory.
type ProcType string

const (
	ProcPrimary   ProcType = "primary"
	ProcSecondary ProcType = "secondary"
)

var (
	// ErrAlreadyInitialized is returned by Init after a successful Init in
	// the same process.
	ErrAlreadyInitialized = errors.New("eal: already initialized")

	// ErrNotInitialized is returned by Get before Init succeeds.
	ErrNotInitialized = errors.New("eal: not initialized")
)

// InitError wraps a failure to bring up the shared-memory runtime.
type InitError struct {
	Reason string
	Err    error
}

func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eal init: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("eal init: %s", e.Reason)
}

func (e *InitError) Unwrap() error { return e.Err }

// Runtime is the process-wide shared-memory runtime state.
type Runtime struct {
	ProcType   ProcType
	FilePrefix string
	HugeDir    string
	SocketMem  string
	IOVA       string
	NoPCI      bool
	Lcores     string
	MainLcore  int // -1 when unset
	Dir        string
}

var (
	mu      sync.Mutex
	current *Runtime
)

// BuildArgs composes the runtime argument vector from the configuration.
// Extra flags are appended verbatim after the config-derived ones.
func BuildArgs(cfg *config.Config, proc ProcType, extra []string) []string {
	args := []string{"flexsdr"}
	push := func(k, v string) {
		args = append(args, k, v)
	}

	if cfg.EAL.FilePrefix != "" {
		push("--file-prefix", cfg.EAL.FilePrefix)
	}
	if cfg.EAL.HugeDir != "" {
		push("--huge-dir", cfg.EAL.HugeDir)
	}
	if cfg.EAL.SocketMem != "" {
		push("--socket-mem", cfg.EAL.SocketMem)
	}
	if cfg.EAL.IOVA != "" {
		push("--iova", cfg.EAL.IOVA)
	}
	if cfg.EAL.NoPCI {
		args = append(args, "--no-pci")
	}
	if cfg.EAL.Lcores != nil && *cfg.EAL.Lcores != "" {
		push("--lcores", *cfg.EAL.Lcores)
	}
	if cfg.EAL.MainLcore != nil && *cfg.EAL.MainLcore >= 0 {
		push("--main-lcore", strconv.Itoa(*cfg.EAL.MainLcore))
	}
	if cfg.EAL.SocketLimit != nil && *cfg.EAL.SocketLimit != "" {
		push("--socket-limit", *cfg.EAL.SocketLimit)
	}
	args = append(args, "--proc-type="+string(proc))
	args = append(args, extra...)
	return args
}

// CmdlineString renders the argument vector on one line, quoting arguments
// that contain spaces.
func CmdlineString(args []string) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.ContainsRune(a, ' ') {
			b.WriteByte('"')
			b.WriteString(a)
			b.WriteByte('"')
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}

// Init applies the argument vector and brings up the runtime. It must be
// called exactly once per process before any resource-manager call; the
// second call fails with ErrAlreadyInitialized. On success it returns the
// number of consumed arguments.
func Init(args []string) (int, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return 0, ErrAlreadyInitialized
	}

	rt := &Runtime{
		IOVA:      "va",
		MainLcore: -1,
		ProcType:  ProcPrimary,
	}

	consumed := 0
	if len(args) > 0 {
		consumed = 1 // argv[0]
	}
	i := 1
	next := func(flag string) (string, error) {
		if i+1 >= len(args) {
			return "", &InitError{Reason: flag + " requires a value"}
		}
		i++
		consumed++
		return args[i], nil
	}
	for ; i < len(args); i++ {
		a := args[i]
		consumed++
		var err error
		switch {
		case a == "--file-prefix":
			rt.FilePrefix, err = next(a)
		case a == "--huge-dir":
			rt.HugeDir, err = next(a)
		case a == "--socket-mem":
			rt.SocketMem, err = next(a)
		case a == "--iova":
			rt.IOVA, err = next(a)
		case a == "--no-pci":
			rt.NoPCI = true
		case a == "--lcores":
			rt.Lcores, err = next(a)
		case a == "--main-lcore":
			var v string
			if v, err = next(a); err == nil {
				rt.MainLcore, err = strconv.Atoi(v)
				if err != nil {
					err = &InitError{Reason: "bad --main-lcore", Err: err}
				}
			}
		case a == "--socket-limit":
			_, err = next(a) // accepted, informational
		case strings.HasPrefix(a, "--proc-type="):
			switch pt := ProcType(strings.TrimPrefix(a, "--proc-type=")); pt {
			case ProcPrimary, ProcSecondary:
				rt.ProcType = pt
			default:
				err = &InitError{Reason: fmt.Sprintf("unknown proc-type %q", pt)}
			}
		default:
			// Unknown flags are left for the application, same as a real
			// EAL: stop consuming here.
			consumed--
			i = len(args)
		}
		if err != nil {
			return 0, err
		}
	}

	if rt.FilePrefix == "" {
		rt.FilePrefix = "flexsdr"
	}
	if rt.HugeDir == "" {
		rt.HugeDir = "/dev/shm"
	}
	rt.Dir = filepath.Join(rt.HugeDir, rt.FilePrefix)

	switch rt.ProcType {
	case ProcPrimary:
		if err := os.MkdirAll(rt.Dir, 0o755); err != nil {
			return 0, &InitError{Reason: "create runtime dir " + rt.Dir, Err: err}
		}
	case ProcSecondary:
		st, err := os.Stat(rt.Dir)
		if err != nil || !st.IsDir() {
			return 0, &InitError{Reason: "runtime dir " + rt.Dir + " missing: primary not running?", Err: err}
		}
	}

	slog.Info("eal initialized",
		"proc_type", rt.ProcType,
		"dir", rt.Dir,
		"cmdline", CmdlineString(args),
		"log_level", logging.LevelFromEnv())

	current = rt
	return consumed, nil
}

// Get returns the initialized runtime.
func Get() (*Runtime, error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Reset tears the runtime down. Only tests use this; a real process
// initializes once and exits.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}
