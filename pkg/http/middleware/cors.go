package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS configuration. An origin entry may be "*", an exact
// origin, or a subdomain pattern such as "https://*.flowshift.app".
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// CORS returns CORS middleware. Requests from an origin outside the list
// get no CORS headers; a preflight from one is refused with 403.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			origin := req.Header.Get(echo.HeaderOrigin)
			preflight := req.Method == http.MethodOptions && req.Header.Get(echo.HeaderAccessControlRequestMethod) != ""

			if origin == "" {
				return next(c)
			}
			res.Header().Add(echo.HeaderVary, echo.HeaderOrigin)

			allowed, ok := matchOrigin(cfg.AllowOrigins, origin)
			if !ok {
				if preflight {
					return c.NoContent(http.StatusForbidden)
				}
				return next(c)
			}
			res.Header().Set(echo.HeaderAccessControlAllowOrigin, allowed)

			if !preflight {
				return next(c)
			}
			if methods != "" {
				res.Header().Set(echo.HeaderAccessControlAllowMethods, methods)
			}
			if headers != "" {
				res.Header().Set(echo.HeaderAccessControlAllowHeaders, headers)
			}
			if cfg.MaxAge > 0 {
				res.Header().Set(echo.HeaderAccessControlMaxAge, strconv.Itoa(cfg.MaxAge))
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}

// matchOrigin returns the Allow-Origin value for origin.
func matchOrigin(patterns []string, origin string) (string, bool) {
	for _, p := range patterns {
		switch {
		case p == "*":
			return "*", true
		case strings.EqualFold(p, origin):
			return origin, true
		case strings.Contains(p, "://*."):
			scheme, suffix, _ := strings.Cut(p, "*")
			if strings.HasPrefix(origin, scheme) && strings.HasSuffix(origin, suffix) && len(origin) > len(scheme)+len(suffix) {
				return origin, true
			}
		}
	}
	return "", false
}
