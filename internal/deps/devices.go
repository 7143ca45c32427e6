package deps

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/simoneroux/magicbox/internal/config"
)

// CheckDeviceNode reports whether the device node behind a libnfc
// connection string is accessible. Connection strings without a device
// path ("acr122_usb") are resolved by libnfc itself and pass trivially.
func CheckDeviceNode(name, connstring string) Status {
	status := Status{
		Name:        name,
		Command:     strings.TrimSpace(connstring),
		Description: "NFC reader port",
		Optional:    true,
	}
	_, devicePath, found := strings.Cut(status.Command, ":")
	devicePath = strings.TrimSpace(devicePath)
	if !found || devicePath == "" {
		status.Available = true
		status.Detail = "resolved by libnfc"
		return status
	}
	if _, err := os.Stat(devicePath); err != nil {
		if os.IsNotExist(err) {
			status.Detail = fmt.Sprintf("%s does not exist", devicePath)
		} else {
			status.Detail = fmt.Sprintf("%s: %v", devicePath, err)
		}
		return status
	}
	if err := unix.Access(devicePath, unix.R_OK|unix.W_OK); err != nil {
		status.Detail = fmt.Sprintf("%s is not read/write accessible: %v", devicePath, err)
		return status
	}
	status.Available = true
	return status
}

// Check evaluates every external dependency for the given config: the
// transport binaries plus the reader device nodes. Device nodes are
// optional because the reader probe only needs one of the candidates.
func Check(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	requirements := []Requirement{
		{
			Name:        "sonos",
			Command:     cfg.Speaker.Binary,
			Description: "Required for speaker control",
		},
		{
			Name:        "cec-client",
			Command:     cfg.Display.Binary,
			Description: "Required for TV power and input control",
		},
		{
			Name:        "mpv",
			Command:     cfg.Video.Binary,
			Description: "Required for video playback",
		},
		{
			Name:        "pkill",
			Command:     "pkill",
			Description: "Cleans up stray video renderers",
			Optional:    true,
		},
	}
	results := CheckBinaries(requirements)
	for i, connstring := range cfg.Reader.Devices {
		results = append(results, CheckDeviceNode(fmt.Sprintf("reader port %d", i+1), connstring))
	}
	return results
}
