package net

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_localsketch._tcp"

// URLScheme prefixes share links: localsketch://host:port opens the desktop
// front-end against that server.
const URLScheme = "localsketch://"

// Host is a LocalSketch server found on the LAN.
type Host struct {
	Instance string `json:"instance"`
	Addr     string `json:"addr"` // host:port
}

func (h Host) URL() string {
	return "http://" + h.Addr
}

// ShareLink is the localsketch:// link for addr.
func ShareLink(addr string) string {
	return URLScheme + addr
}

// ParseShareLink strips the scheme and trailing slash from a share link.
func ParseShareLink(link string) (string, bool) {
	if !strings.HasPrefix(link, URLScheme) {
		return "", false
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, URLScheme), "/")
	return addr, addr != ""
}

// Advertise publishes the server on the LAN until the returned server is shut
// down. An empty instance uses the hostname.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"LocalSketch"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	slog.Info("advertising on LAN", "instance", instance, "service", ServiceType, "port", port)
	return server, nil
}

// Browse looks for servers for up to timeout (or until ctx is done) and
// returns them sorted by address.
func Browse(ctx context.Context, timeout time.Duration) ([]Host, error) {
	if d, ok := ctx.Deadline(); ok && time.Until(d) < timeout {
		timeout = time.Until(d)
	}

	entries := make(chan *mdns.ServiceEntry, 8)
	found := map[string]Host{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
			found[addr] = Host{Instance: instanceName(e.Name), Addr: addr}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns lookup: %w", err)
	}

	hosts := make([]Host, 0, len(found))
	for _, h := range found {
		hosts = append(hosts, h)
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Addr < hosts[j].Addr })
	return hosts, nil
}

// instanceName trims "My-Laptop._localsketch._tcp.local." to "My-Laptop".
func instanceName(full string) string {
	name, _, _ := strings.Cut(full, "."+ServiceType)
	return strings.ReplaceAll(name, `\ `, " ")
}
