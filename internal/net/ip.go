package net

import (
	"log/slog"
	"net"
)

// OutgoingIP finds the local address other machines on the LAN can reach
// this host at.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet; look at the interfaces instead.
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func localIPFallback() string {
	if ip := firstIPv4(); ip != nil {
		return ip.String()
	}
	slog.Warn("no suitable local IP found, share links will use loopback")
	return "127.0.0.1"
}

// firstIPv4 returns the first IPv4 address of an up, non-loopback interface.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return nil
}
