package discmonitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"cddarip/internal/config"
	"cddarip/internal/disc"
	"cddarip/internal/logging"
)

// Handler is invoked with the device path when media is inserted.
type Handler func(ctx context.Context, device string) error

// Monitor listens for udev netlink events and reports disc insertions.
type Monitor struct {
	logger  *slog.Logger
	handler Handler
	isBusy  func() bool
	device  string

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New creates a monitor for the drive configured in cfg. isBusy may be nil;
// when it reports true, insert events are ignored. New returns nil when no
// device is configured.
func New(cfg *config.Config, logger *slog.Logger, handler Handler, isBusy func() bool) *Monitor {
	if cfg == nil {
		return nil
	}
	device := disc.ExtractDevicePath(strings.TrimSpace(cfg.Drive.Device))
	if device == "" {
		return nil
	}
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "disc-monitor"),
		handler: handler,
		isBusy:  isBusy,
		device:  device,
	}
}

// Device returns the watched device node.
func (m *Monitor) Device() string {
	if m == nil {
		return ""
	}
	return m.device
}

// Start connects to the kernel uevent socket and begins dispatching events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return err
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, conn, quit)

	m.logger.Info("disc monitor started",
		logging.String(logging.FieldEventType, "disc_monitor_started"),
		logging.String("device", m.device),
	)
	return nil
}

// Stop shuts down the monitor. It is safe to call on a stopped monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("disc monitor stopped",
		logging.String(logging.FieldEventType, "disc_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "disc_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "disc insertion may go unnoticed"),
			)
		}
	}
}

// buildMatcher matches block device events for optical drives with media:
// SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1, ACTION=change|add.
// Audio discs additionally carry ID_CDROM_MEDIA_TRACK_COUNT_AUDIO, which the
// handler does not require so mixed-mode discs still match.
func buildMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := deviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}
	if devname != m.device {
		m.logger.Debug("ignoring event for other device",
			logging.String("device", devname),
			logging.String("configured_device", m.device),
		)
		return
	}
	if uevent.Env["ID_CDROM_MEDIA_TRACK_COUNT_AUDIO"] == "0" {
		m.logger.Debug("ignoring disc without audio tracks", logging.String("device", devname))
		return
	}
	if m.isBusy != nil && m.isBusy() {
		m.logger.Debug("extraction in progress, ignoring insert event",
			logging.String("device", devname),
		)
		return
	}

	m.logger.Info("disc inserted",
		logging.String(logging.FieldEventType, "disc_inserted"),
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)),
	)
	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, devname); err != nil {
		logging.WarnWithContext(m.logger, "disc insert handler failed", "disc_handler_failed",
			logging.Error(err),
			logging.String("device", devname),
			logging.String(logging.FieldImpact, "disc was not extracted"),
		)
	}
}

// deviceName gets the device node from a uevent, falling back to the last
// DEVPATH element.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			devname = "/dev/" + devname
		}
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
