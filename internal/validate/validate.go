// Package validate guards the API against URLs the service must not fetch.
package validate

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

var (
	ErrUnsafeURL       = errors.New("URL is not safe to scrape")
	ErrDomainForbidden = errors.New("domain not allowed")
)

// SafeURL rejects URLs that are not http(s) or that point at the local
// machine or a private network by literal address. Host names other than
// localhost are not resolved.
func SafeURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrUnsafeURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "":
		return fmt.Errorf("%w: missing host", ErrUnsafeURL)
	case host == "localhost" || strings.HasSuffix(host, ".localhost"):
		return fmt.Errorf("%w: %s", ErrUnsafeURL, host)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
		return fmt.Errorf("%w: %s", ErrUnsafeURL, host)
	}
	return nil
}

// DomainAllowed reports whether rawURL's host equals an allow-list entry or
// is a subdomain of one. "www." is ignored on both sides. An empty list
// allows everything.
func DomainAllowed(rawURL string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return false
	}

	for _, a := range allow {
		a = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(a)), "www.")
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

// Check applies SafeURL and then DomainAllowed.
func Check(rawURL string, allow []string) error {
	if err := SafeURL(rawURL); err != nil {
		return err
	}
	if !DomainAllowed(rawURL, allow) {
		return fmt.Errorf("%w: %s", ErrDomainForbidden, rawURL)
	}
	return nil
}
