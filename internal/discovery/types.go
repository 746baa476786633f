// Package discovery implements the discovery wire types and
// Broadcaster, the periodic UDP beacon that announces the HTTP
// server's endpoint.
package discovery

import (
	"time"

	"github.com/spicesharp/mcp-server/internal/constants"
)

// Announcement is the single UTF-8 JSON datagram broadcast every
// interval.
type Announcement struct {
	MessageType string            `json:"messageType"`
	Version     string            `json:"version"`
	Timestamp   string            `json:"timestamp"`
	Server      AnnouncementServer `json:"server"`
	Service     AnnouncementService `json:"service"`
	Tools       []string          `json:"tools"`
	Instance    AnnouncementInstance `json:"instance"`
}

type AnnouncementServer struct {
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	Transport AnnouncementTransport `json:"transport"`
	Network   AnnouncementNetwork `json:"network"`
}

type AnnouncementTransport struct {
	Type string `json:"type"`
	Host string `json:"host"`
	Port int    `json:"port"`
	Path string `json:"path"`
}

type AnnouncementNetwork struct {
	LocalIP string `json:"local_ip"`
}

type AnnouncementService struct {
	Capabilities []string `json:"capabilities"`
}

type AnnouncementInstance struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	ID    string `json:"id"`
	PID   int    `json:"pid"`
}

// NewAnnouncement builds an Announcement from the server's current,
// live values: host/port are read fresh each call so a mid-session port
// change is reflected in the next broadcast.
func NewAnnouncement(host string, port int, localIP, instanceID, instanceName, instanceGroup string, pid int, tools []string) Announcement {
	return Announcement{
		MessageType: constants.DiscoveryMessageType,
		Version:     constants.DiscoveryVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Server: AnnouncementServer{
			Name:    constants.MCPServerName,
			Version: constants.MCPServerVersion,
			Transport: AnnouncementTransport{
				Type: "http",
				Host: host,
				Port: port,
				Path: constants.MCPPath,
			},
			Network: AnnouncementNetwork{LocalIP: localIP},
		},
		Service: AnnouncementService{Capabilities: []string{"tools"}},
		Tools:   tools,
		Instance: AnnouncementInstance{
			Name:  instanceName,
			Group: instanceGroup,
			ID:    instanceID,
			PID:   pid,
		},
	}
}

// Reply is the GET /discovery response body.
type Reply struct {
	MCPEndpoint    string `json:"mcpEndpoint"`
	Port           int    `json:"port"`
	Host           string `json:"host"`
	NetworkVisible bool   `json:"networkVisible"`
	ProcessID      int    `json:"processId"`
	StartTime      string `json:"startTime"`
}
