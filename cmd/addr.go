package cmd

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// validateAddr checks a host:port listen address before the server binds
// it, so flag mistakes fail fast with a readable message instead of a bind
// error. An empty host means all interfaces; port 0 means auto-assign.
// Host resolution is left to the listener.
func validateAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("must be in host:port format: %w", err)
	}
	if strings.ContainsAny(host, " \t") {
		return fmt.Errorf("invalid host %q", host)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port must be numeric: %w", err)
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("port out of range: %d", n)
	}
	return nil
}
