package transport

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/kochabx/paseto/errors"
)

// DefaultAddress is used when no listen address is configured.
const DefaultAddress = ":8080"

// ErrInvalidAddress is returned by ParseAddress.
var ErrInvalidAddress = errors.BadRequest("transport: invalid listen address")

// Server is a blocking server with graceful shutdown.
type Server interface {
	// Run blocks until the server stops. A stop caused by Shutdown returns nil.
	Run() error
	Shutdown(context.Context) error
}

// ParseAddress normalizes a listen address.
//
//	""             -> DefaultAddress
//	"8443"         -> ":8443"
//	"[::1]:08080"  -> "[::1]:8080"
//
// The host may be empty, an IP literal or a hostname; the port must be in
// 1..65535.
func ParseAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return DefaultAddress, nil
	}
	if isDigits(addr) {
		addr = ":" + addr
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", invalidAddress(addr, "missing port")
	}

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil || p == 0 {
		return "", invalidAddress(addr, "port out of range")
	}

	if host != "" && net.ParseIP(host) == nil && !isHostname(host) {
		return "", invalidAddress(addr, "bad host")
	}

	return net.JoinHostPort(host, strconv.FormatUint(p, 10)), nil
}

func invalidAddress(addr, reason string) error {
	return ErrInvalidAddress.WithMetadata(map[string]string{"addr": addr, "reason": reason})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// isHostname checks RFC 1123 labels: 1..63 letters, digits or hyphens, not
// starting or ending with a hyphen.
func isHostname(host string) bool {
	host = strings.TrimSuffix(host, ".")
	if host == "" || len(host) > 253 {
		return false
	}

	for label := range strings.SplitSeq(host, ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-') {
				return false
			}
		}
	}
	return true
}
