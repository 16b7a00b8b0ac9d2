// Package httpclient builds the HTTP client used to download registries.
// Registry URLs can come from a checked-in glbind.toml, so by default the
// client refuses to reach loopback, private and link-local addresses, both
// on the first request and on every redirect.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/glbind/errors"
)

// Options configures New. The zero value is usable.
type Options struct {
	// Timeout bounds a whole download. Zero means DefaultTimeout.
	Timeout time.Duration
	// AllowPrivate permits loopback and private-network hosts.
	AllowPrivate bool
	// MaxRedirects is the redirect limit. Zero means 10.
	MaxRedirects int
}

// DefaultTimeout is long enough for gl.xml (a few MB) on a slow link.
const DefaultTimeout = 2 * time.Minute

// Client is an *http.Client with address checks installed.
type Client struct {
	*http.Client
	allowPrivate bool
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = 10
	}

	c := &Client{
		Client:       &http.Client{Timeout: opts.Timeout},
		allowPrivate: opts.AllowPrivate,
	}
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= opts.MaxRedirects {
			return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
		}
		if err := c.Check(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if !opts.AllowPrivate {
		dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
		c.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			// resolve here so a public name cannot rebind to a private address
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, ip := range ips {
					if IsPrivate(ip) {
						return nil, errors.Newf("private address blocked: %s", ip)
					}
				}
				if len(ips) == 0 {
					return nil, errors.Newf("host %q has no addresses", host)
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
			},
			TLSHandshakeTimeout:   10 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: time.Second,
		}
	}
	return c
}

// Check rejects URLs the client must not fetch.
func (c *Client) Check(u *url.URL) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.Newf("scheme %q not allowed", u.Scheme)
	}
	if u.User != nil {
		return errors.New("URL carries credentials")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL has no host")
	}
	if c.allowPrivate {
		return nil
	}
	if isLocalhost(host) {
		return errors.Newf("%s is a local host", host)
	}
	if ip, err := netip.ParseAddr(host); err == nil && IsPrivate(ip) {
		return errors.Newf("private address blocked: %s", host)
	}
	return nil
}

// Do checks req.URL before sending it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.Check(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fec0::/10"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// IsPrivate reports whether ip is loopback, private, link-local, multicast
// or otherwise not a public unicast address.
func IsPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, p := range privatePrefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" || host == "localhost.localdomain" || strings.HasSuffix(host, ".localhost")
}
