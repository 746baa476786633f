package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/spicesharp/mcp-server/internal/config"
	"github.com/spicesharp/mcp-server/internal/constants"
	"github.com/spicesharp/mcp-server/internal/logbuffer"
)

// ToolsLister supplies the current tool name list for each announcement.
type ToolsLister interface {
	Names() []string
}

// Broadcaster owns a UDP socket with broadcast enabled and periodically
// emits an Announcement naming the server's current endpoint. Host and
// port are read from cfg by pointer on every tick, so a mid-session
// port change is reflected in the very next broadcast.
type Broadcaster struct {
	cfg          *config.Config
	tools        ToolsLister
	log          *logbuffer.Buffer
	instanceID   string
	pid          int
	startTime    time.Time
	conn         *net.UDPConn
	consecFailed int
}

// New builds a Broadcaster bound to cfg. cfg must outlive the
// Broadcaster's Run call.
func New(cfg *config.Config, tools ToolsLister, log *logbuffer.Buffer, pid int) *Broadcaster {
	return &Broadcaster{
		cfg:        cfg,
		tools:      tools,
		log:        log,
		instanceID: uuid.NewString(),
		pid:        pid,
		startTime:  time.Now().UTC(),
	}
}

// Run broadcasts one Announcement every cfg.DiscoveryInterval seconds
// until ctx is canceled. The socket is guaranteed to be released before
// Run returns.
func (b *Broadcaster) Run(ctx context.Context) error {
	if err := b.dial(); err != nil {
		return fmt.Errorf("discovery broadcaster: initial dial failed: %w", err)
	}
	defer b.closeConn()

	interval := time.Duration(b.cfg.DiscoveryInterval) * time.Second
	if interval <= 0 {
		interval = time.Duration(constants.DefaultDiscoveryInterval) * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.tick()
		}
	}
}

// tick sends a single announcement, applying the bounded-retry policy on
// failure: 5 consecutive failures triggers one
// socket recreation; if recreation itself fails, sleep 5s before the
// next tick.
func (b *Broadcaster) tick() {
	if err := b.send(); err != nil {
		b.consecFailed++
		b.log.Add(logbuffer.LevelWarning, fmt.Sprintf("discovery broadcast failed (%d consecutive)", b.consecFailed), err.Error())

		if b.consecFailed >= constants.BroadcastFailureThreshold {
			b.closeConn()
			if err := b.dial(); err != nil {
				b.log.Error("discovery broadcaster: socket recreation failed", err.Error())
				time.Sleep(constants.BroadcastBackoffSleep * time.Second)
			}
			b.consecFailed = 0
		}
		return
	}
	b.consecFailed = 0
}

func (b *Broadcaster) send() error {
	if b.conn == nil {
		if err := b.dial(); err != nil {
			return err
		}
	}

	host := b.cfg.ResolvedHost()
	port := b.cfg.Port
	localIP := localIPv4()

	var names []string
	if b.tools != nil {
		names = b.tools.Names()
	}

	ann := NewAnnouncement(host, port, localIP, b.instanceID, b.cfg.InstanceName, b.cfg.InstanceGroup, b.pid, names)
	payload, err := json.Marshal(ann)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	dest := &net.UDPAddr{IP: net.IPv4bcast, Port: b.cfg.DiscoveryPort}
	_, err = b.conn.WriteToUDP(payload, dest)
	return err
}

// dial opens an OS-chosen UDP port and marks the underlying socket
// SO_BROADCAST, which net.Dial/net.ListenUDP have no portable option
// for; SyscallConn is the standard library's own documented escape
// hatch for this.
func (b *Broadcaster) dial() error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return err
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		conn.Close()
		return err
	}
	var sockErr error
	if err := raw.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
	}); err != nil {
		conn.Close()
		return err
	}
	if sockErr != nil {
		conn.Close()
		return sockErr
	}

	b.conn = conn
	return nil
}

func (b *Broadcaster) closeConn() {
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}

// localIPv4 returns the first non-loopback IPv4 address bound to this
// host, or "127.0.0.1" if none is found.
func localIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "127.0.0.1"
}
