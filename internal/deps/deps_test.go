package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/simoneroux/magicbox/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available {
		t.Fatalf("expected unconfigured command to be unavailable")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unconfigured command: %s", results[2].Detail)
	}
}

func TestCheckDeviceNode(t *testing.T) {
	node := filepath.Join(t.TempDir(), "ttyS0")
	if err := os.WriteFile(node, nil, 0o600); err != nil {
		t.Fatalf("write fake node: %v", err)
	}

	t.Run("accessible node", func(t *testing.T) {
		status := CheckDeviceNode("reader", "pn532_uart:"+node)
		if !status.Available {
			t.Fatalf("expected accessible node, got detail %q", status.Detail)
		}
	})

	t.Run("missing node", func(t *testing.T) {
		status := CheckDeviceNode("reader", "pn532_uart:"+filepath.Join(t.TempDir(), "nope"))
		if status.Available {
			t.Fatal("expected missing node to be unavailable")
		}
		if status.Detail == "" {
			t.Fatal("expected detail for missing node")
		}
	})

	t.Run("no device path", func(t *testing.T) {
		status := CheckDeviceNode("reader", "acr122_usb")
		if !status.Available {
			t.Fatalf("expected USB connstring to pass, got detail %q", status.Detail)
		}
		if status.Detail != "resolved by libnfc" {
			t.Fatalf("unexpected detail: %s", status.Detail)
		}
	})

	t.Run("device nodes are optional", func(t *testing.T) {
		status := CheckDeviceNode("reader", "pn532_uart:/dev/does-not-exist")
		if !status.Optional {
			t.Fatal("expected device node checks to be optional")
		}
	})
}

func TestCheckFromConfig(t *testing.T) {
	node := filepath.Join(t.TempDir(), "ttyAMA0")
	if err := os.WriteFile(node, nil, 0o600); err != nil {
		t.Fatalf("write fake node: %v", err)
	}
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithReaderDevices("pn532_uart:"+node))

	results := Check(cfg)
	// Three transport binaries, pkill, and one reader port.
	if len(results) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(results))
	}
	for _, status := range results {
		if !status.Available {
			t.Errorf("dependency %s unavailable: %s", status.Name, status.Detail)
		}
	}
	if missing := Missing(results); len(missing) != 0 {
		t.Fatalf("expected no missing dependencies, got %v", missing)
	}
}

func TestCheckNilConfig(t *testing.T) {
	if results := Check(nil); results != nil {
		t.Fatalf("expected nil statuses for nil config, got %v", results)
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "required-gone", Available: false},
		{Name: "optional-gone", Available: false, Optional: true},
		{Name: "here", Available: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0] != "required-gone" {
		t.Fatalf("unexpected missing set: %v", missing)
	}
}
