package security

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
)

var (
	ErrPrivateIP     = errors.New("URL resolves to private IP address")
	ErrInvalidScheme = errors.New("only HTTPS URLs are allowed")
	ErrMissingHost   = errors.New("URL has no host")
)

// URLPolicy decides which reference-image URLs may be fetched. The zero value
// is the strict policy: https only, and no host that resolves to a private or
// reserved address.
type URLPolicy struct {
	AllowHTTP    bool
	AllowPrivate bool

	// Lookup resolves host names; nil uses the default resolver.
	Lookup func(ctx context.Context, host string) ([]netip.Addr, error)
}

// Check validates rawURL against the policy.
func (p *URLPolicy) Check(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch {
	case parsed.Scheme == "https":
	case parsed.Scheme == "http" && p.AllowHTTP:
	default:
		return ErrInvalidScheme
	}

	host := parsed.Hostname()
	if host == "" {
		return ErrMissingHost
	}
	if p.AllowPrivate {
		return nil
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if isReservedAddr(addr) {
			return fmt.Errorf("%w: %s", ErrPrivateIP, addr)
		}
		return nil
	}

	lookup := p.Lookup
	if lookup == nil {
		lookup = func(ctx context.Context, host string) ([]netip.Addr, error) {
			return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		}
	}
	addrs, err := lookup(ctx, host)
	if err != nil {
		// The fetch itself will fail and report the resolution error.
		return nil
	}
	for _, addr := range addrs {
		if isReservedAddr(addr) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, host, addr)
		}
	}
	return nil
}

func isReservedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsPrivate() || addr.IsUnspecified() || addr.IsMulticast() {
		return true
	}
	for _, prefix := range reservedV4 {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

var reservedV4 = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
}
