package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/logging"
)

const (
	// DescriberService is the mDNS service type of describer servers
	DescriberService = "_sketchui-describe._tcp"

	// PreviewService is the mDNS service type of live preview servers
	PreviewService = "_sketchui-preview._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for service discovery
	DefaultScanTimeout = 3 * time.Second
)

// Scanner handles mDNS service discovery
type Scanner struct {
	// Timeout is the maximum time to wait for services
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Browse lists the services of serviceType that answer within the scanner
// timeout, sorted by instance name.
func (s *Scanner) Browse(ctx context.Context, serviceType string) ([]*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		services []*Service
		seen     = make(map[string]bool)
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		for entry := range entries {
			svc := parseServiceEntry(serviceType, entry)
			if svc == nil {
				continue
			}
			mu.Lock()
			if !seen[svc.Instance] {
				seen[svc.Instance] = true
				services = append(services, svc)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, serviceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for %s: %w", serviceType, err)
	}

	<-ctx.Done()
	// The resolver closes entries once the context ends.
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Slice(services, func(i, j int) bool { return services[i].Instance < services[j].Instance })
	logging.Debug("mDNS browse finished",
		zap.String("service", serviceType),
		zap.Int("found", len(services)),
	)
	return services, nil
}

// First returns the first service of serviceType to answer.
func (s *Scanner) First(ctx context.Context, serviceType string) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Service, 1)
	go func() {
		for entry := range entries {
			if svc := parseServiceEntry(serviceType, entry); svc != nil {
				select {
				case found <- svc:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, serviceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for %s: %w", serviceType, err)
	}

	select {
	case svc := <-found:
		return svc, nil
	case <-ctx.Done():
		select {
		case svc := <-found:
			return svc, nil
		default:
		}
		return nil, fmt.Errorf("no %s service found within %s", serviceType, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Service. It returns nil
// for entries without a usable address.
func parseServiceEntry(serviceType string, entry *zeroconf.ServiceEntry) *Service {
	if entry == nil || entry.Port <= 0 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Service{
		Instance:     instance,
		Type:         serviceType,
		Host:         entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT parses "key=value" TXT records. Keys without a value map to "".
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// Advertisement is a registered mDNS service.
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers instance as a serviceType service on port. txt holds
// "key=value" records.
func Advertise(instance, serviceType string, port int, txt []string) (*Advertisement, error) {
	server, err := zeroconf.Register(instance, serviceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to advertise %s: %w", serviceType, err)
	}
	logging.Info("Advertising service",
		zap.String("instance", instance),
		zap.String("service", serviceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

// BrowseAll browses the describer and preview service types.
func BrowseAll(ctx context.Context, timeout time.Duration) (map[string][]*Service, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}

	out := make(map[string][]*Service)
	for _, serviceType := range []string{DescriberService, PreviewService} {
		services, err := scanner.Browse(ctx, serviceType)
		if err != nil {
			return nil, err
		}
		out[serviceType] = services
	}
	return out, nil
}
