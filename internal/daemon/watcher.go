package daemon

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"github.com/simoneroux/magicbox/internal/config"
	"github.com/simoneroux/magicbox/internal/logging"
)

// readerWatcher listens for udev netlink events on the serial ports the
// NFC reader may sit on. It is purely observational: attach and detach
// events are logged to give reader I/O faults context, while the listener
// loop keeps sole ownership of retry behaviour.
type readerWatcher struct {
	logger  *slog.Logger
	devices map[string]struct{}

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// newReaderWatcher derives the watched tty names from the configured
// libnfc connection strings ("pn532_uart:/dev/ttyS0" watches ttyS0).
func newReaderWatcher(cfg *config.Config, logger *slog.Logger) *readerWatcher {
	if cfg == nil {
		return nil
	}
	devices := make(map[string]struct{})
	for _, connstring := range cfg.Reader.Devices {
		_, devicePath, found := strings.Cut(connstring, ":")
		if !found {
			continue
		}
		if name := path.Base(strings.TrimSpace(devicePath)); name != "" && name != "." {
			devices[name] = struct{}{}
		}
	}
	if len(devices) == 0 {
		return nil
	}
	return &readerWatcher{
		logger:  logging.NewComponentLogger(logger, "reader-watcher"),
		devices: devices,
	}
}

// Start begins listening for udev events. Failure to reach the netlink
// socket is non-fatal; the box just loses hotplug context in its logs.
func (w *readerWatcher) Start(ctx context.Context) {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket; reader hotplug events will not be logged",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon may access netlink sockets"))
		return
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.monitorLoop(ctx, quit)

	w.logger.Debug("reader watcher started",
		logging.String("devices", strings.Join(w.deviceNames(), ",")))
}

// Stop shuts the watcher down.
func (w *readerWatcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false
}

func (w *readerWatcher) deviceNames() []string {
	names := make([]string, 0, len(w.devices))
	for name := range w.devices {
		names = append(names, name)
	}
	return names
}

func (w *readerWatcher) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, w.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			w.handleEvent(uevent)
		case err := <-errs:
			w.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

func (w *readerWatcher) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "tty",
		},
	})
	return rules
}

func (w *readerWatcher) handleEvent(uevent netlink.UEvent) {
	name := deviceBaseName(uevent)
	if name == "" {
		return
	}
	if _, watched := w.devices[name]; !watched {
		return
	}

	switch uevent.Action {
	case netlink.ADD:
		w.logger.Info("reader serial port attached",
			logging.String(logging.FieldEventType, "reader_port_attached"),
			logging.String("device", name))
	case netlink.REMOVE:
		w.logger.Warn("reader serial port detached",
			logging.String(logging.FieldEventType, "reader_port_detached"),
			logging.String("device", name),
			logging.String(logging.FieldErrorHint, "tag waits will fail until the reader is reattached"))
	}
}

func deviceBaseName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return path.Base(devname)
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	return path.Base(devpath)
}
