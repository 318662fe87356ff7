package eal

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/flexsdr/flexsdr/pkg/config"
)

func testConfig(hugeDir string) *config.Config {
	lcores := "0-3"
	main := 0
	return &config.Config{
		EAL: config.EALConfig{
			FilePrefix: "shm1",
			HugeDir:    hugeDir,
			SocketMem:  "512,512",
			IOVA:       "va",
			NoPCI:      true,
			Lcores:     &lcores,
			MainLcore:  &main,
		},
	}
}

func TestBuildArgs(t *testing.T) {
	cfg := testConfig("/dev/hugepages")
	got := BuildArgs(cfg, ProcPrimary, []string{"--log-level=8"})
	want := []string{
		"flexsdr",
		"--file-prefix", "shm1",
		"--huge-dir", "/dev/hugepages",
		"--socket-mem", "512,512",
		"--iova", "va",
		"--no-pci",
		"--lcores", "0-3",
		"--main-lcore", "0",
		"--proc-type=primary",
		"--log-level=8",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs:\n got %q\nwant %q", got, want)
	}
}

func TestBuildArgsSecondary(t *testing.T) {
	cfg := &config.Config{}
	got := BuildArgs(cfg, ProcSecondary, nil)
	want := []string{"flexsdr", "--proc-type=secondary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs minimal: got %q, want %q", got, want)
	}
}

func TestCmdlineString(t *testing.T) {
	got := CmdlineString([]string{"flexsdr", "--huge-dir", "/mnt/huge pages"})
	want := `flexsdr --huge-dir "/mnt/huge pages"`
	if got != want {
		t.Errorf("CmdlineString = %q, want %q", got, want)
	}
}

func TestInitOncePerProcess(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	cfg := testConfig(dir)
	args := BuildArgs(cfg, ProcPrimary, nil)

	consumed, err := Init(args)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if consumed != len(args) {
		t.Errorf("consumed %d of %d args", consumed, len(args))
	}

	rt, err := Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rt.ProcType != ProcPrimary {
		t.Errorf("proc type = %v", rt.ProcType)
	}
	if rt.Dir != filepath.Join(dir, "shm1") {
		t.Errorf("runtime dir = %q", rt.Dir)
	}

	if _, err := Init(args); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("double init: got %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitSecondaryRequiresPrimaryDir(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := testConfig(t.TempDir())
	args := BuildArgs(cfg, ProcSecondary, nil)
	_, err := Init(args)
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("secondary before primary: got %v, want InitError", err)
	}
}

func TestInitSecondaryAfterPrimary(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	cfg := testConfig(dir)
	if _, err := Init(BuildArgs(cfg, ProcPrimary, nil)); err != nil {
		t.Fatalf("primary init: %v", err)
	}

	// A second process attaching: simulate by resetting the singleton.
	Reset()
	if _, err := Init(BuildArgs(cfg, ProcSecondary, nil)); err != nil {
		t.Fatalf("secondary init after primary created the dir: %v", err)
	}
}

func TestGetBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	if _, err := Get(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Get before Init: got %v", err)
	}
}
