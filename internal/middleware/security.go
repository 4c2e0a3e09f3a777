package middleware

import "github.com/gin-gonic/gin"

// apiHeaders apply to every response. The API only serves JSON, so nothing may be
// framed, sniffed, embedded or cached; mood data must not outlive the response.
var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Resource-Policy", "same-site"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	{"Cache-Control", "no-store"},
	{"Pragma", "no-cache"},
}

// SecurityHeaders sets apiHeaders, plus HSTS in production where TLS terminates in front
// of the API.
func SecurityHeaders(production bool) gin.HandlerFunc {
	headers := apiHeaders
	if production {
		headers = append(headers[:len(headers):len(headers)], [2]string{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"})
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range headers {
			h.Set(kv[0], kv[1])
		}
		c.Next()
	}
}
