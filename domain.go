package harvest

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SameDomain reports whether two URLs belong to the same site for crawl
// scoping purposes. Hosts that match exactly (including port) are always
// the same site; otherwise the registrable domains are compared, so
// www.example.com and example.com are treated as one site while
// example.com and example.org are not.
func SameDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	if ua.Host == "" || ub.Host == "" {
		return false
	}
	if strings.EqualFold(ua.Host, ub.Host) {
		return true
	}
	da, ok := registrableDomain(ua.Host)
	if !ok {
		return false
	}
	db, ok := registrableDomain(ub.Host)
	if !ok {
		return false
	}
	return strings.EqualFold(da, db)
}

// registrableDomain returns the eTLD+1 for a host, stripping any port.
// The second result is false for hosts with no registrable domain
// (IP addresses, localhost, single labels).
func registrableDomain(host string) (string, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return "", false
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(host))
	if err != nil {
		return "", false
	}
	return d, true
}
