package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Service is a sketchui-related service found on the local network.
type Service struct {
	// Instance is the advertised instance name (e.g., "studio-describer")
	Instance string

	// Type is the service type it was found under
	Type string

	// Host is the mDNS hostname (e.g., "studio.local.")
	Host string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the service port
	Port int

	// Metadata contains the TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Host, s.Addr())
}

// Addr returns host:port for the service.
func (s *Service) Addr() string {
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// BaseURL returns the HTTP base URL for the service
func (s *Service) BaseURL() string {
	return "http://" + s.Addr()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
