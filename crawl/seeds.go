package crawl

import (
	"strings"

	"github.com/fwojciec/harvest"
)

// NormalizeSeeds trims the raw seed URLs, drops blank entries, and
// prefixes entries missing a scheme with https://. It returns EINVALID
// when no usable seed remains, so invalid input is rejected before any
// network activity.
func NormalizeSeeds(seeds []string) ([]string, error) {
	var out []string
	for _, raw := range seeds {
		seed := strings.TrimSpace(raw)
		if seed == "" {
			continue
		}
		if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
			seed = "https://" + seed
		}
		out = append(out, seed)
	}
	if len(out) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "a list of URLs is required")
	}
	return out, nil
}
