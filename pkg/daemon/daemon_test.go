package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/flexsdr/flexsdr/pkg/eal"
)

const daemonYAML = `
eal:
  file_prefix: flexd
  huge_dir: %s
defaults:
  role: primary-ue
naming:
  prefix_with_role: true
primary_ue:
  pools:
    - name: inbound_pool
      size: 64
      elt_size: 2048
  rx_stream:
    num_channels: 2
    rings:
      - name: inbound_ring
        size: 128
`

func TestRunCreatesResourcesAndReadiness(t *testing.T) {
	eal.Reset()
	t.Cleanup(eal.Reset)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "flexsdr.yaml")
	if err := os.WriteFile(cfgPath, []byte(fmt.Sprintf(daemonYAML, dir)), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(Options{
		ConfigFile: cfgPath,
		// No control or API servers: Run performs setup, then returns.
	})

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Teardown removed the readiness file and unlinked the objects.
	runDir := filepath.Join(dir, "flexd")
	if _, err := os.Stat(filepath.Join(runDir, ReadyFileName)); !os.IsNotExist(err) {
		t.Error("readiness file survived shutdown")
	}
	if _, err := os.Stat(filepath.Join(runDir, "ue_inbound_ring")); !os.IsNotExist(err) {
		t.Error("ring file survived shutdown")
	}
	if _, err := os.Stat(filepath.Join(runDir, "ue_inbound_pool")); !os.IsNotExist(err) {
		t.Error("pool file survived shutdown")
	}
}

func TestRunRejectsSecondaryRole(t *testing.T) {
	eal.Reset()
	t.Cleanup(eal.Reset)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "flexsdr.yaml")
	body := "eal:\n  huge_dir: " + dir + "\ndefaults:\n  role: ue\nue:\n  rx_stream:\n    rings:\n      - name: r\n        size: 8\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(Options{ConfigFile: cfgPath})
	if err := d.Run(context.Background()); err == nil {
		t.Fatal("daemon accepted a lookup-only role")
	}
}
