package ratelimit

import (
	"strings"
)

var unlimited = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint returns the rule for path and method, or nil when only the
// default applies. Exact paths win over prefixes; the longest prefix wins
// among prefixes. Health checks are never limited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		rule := unlimited
		return &rule
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			if best == nil || len(rule.Path) > len(best.Path) {
				best = rule
			}
		}
	}
	return best
}
