package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders  = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID, Idempotency-Key"
	corsAllowMethods  = "GET, POST, PATCH, OPTIONS"
	corsExposeHeaders = "X-Request-ID, Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-Idempotency-Replayed"
)

// originPolicy decides which browser origins may call the API. Entries are exact
// origins ("https://app.moodwell.dev") or a wildcard for one subdomain label, as used by
// preview deployments ("https://*.moodwell-app.pages.dev").
type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []originSuffix
}

type originSuffix struct {
	scheme string // "https://"
	suffix string // ".moodwell-app.pages.dev"
}

// newOriginPolicy parses the configured origins. An empty list, or "*", allows any
// origin without credentials. Malformed wildcards are treated as exact origins and so
// never match.
func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
		case o == "*":
			p.any = true
		default:
			if s, ok := parseOriginSuffix(o); ok {
				p.suffixes = append(p.suffixes, s)
			} else {
				p.exact[o] = struct{}{}
			}
		}
	}
	if len(p.exact) == 0 && len(p.suffixes) == 0 {
		p.any = true
	}
	return p
}

// parseOriginSuffix accepts scheme://*.domain.tld with exactly one leading wildcard label
func parseOriginSuffix(pattern string) (originSuffix, bool) {
	scheme, host, ok := strings.Cut(pattern, "://")
	if !ok || !strings.HasPrefix(host, "*.") || strings.Count(host, "*") != 1 {
		return originSuffix{}, false
	}
	suffix := host[1:]
	if strings.Count(suffix, ".") < 2 {
		return originSuffix{}, false
	}
	return originSuffix{scheme: scheme + "://", suffix: suffix}, true
}

func (s originSuffix) matches(origin string) bool {
	host, ok := strings.CutPrefix(origin, s.scheme)
	if !ok {
		return false
	}
	label, ok := strings.CutSuffix(host, s.suffix)
	return ok && label != "" && !strings.ContainsAny(label, "./:")
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, s := range p.suffixes {
		if s.matches(origin) {
			return true
		}
	}
	return false
}

// CORS answers preflights and sets the CORS response headers. Listed origins are echoed
// back with credentials allowed; preflights from any other origin get a 403.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()

		switch {
		case policy.any:
			h.Set("Access-Control-Allow-Origin", "*")
		case policy.allows(origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		case c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
