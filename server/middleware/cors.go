package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	// AllowedOriginPatterns are regular expressions matched against the
	// whole Origin header, e.g. `https://.*\.run\.app`.
	AllowedOriginPatterns []string `yaml:"allowed_origin_patterns" mapstructure:"allowed_origin_patterns"`
	// AllowedMethods and AllowedHeaders accept "*" to mirror the preflight
	// request.
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" mapstructure:"max_age"` // seconds
}

// Validate checks that every origin pattern compiles.
func (c *CORSConfig) Validate() error {
	for _, p := range c.AllowedOriginPatterns {
		if _, err := compileOrigin(p); err != nil {
			return fmt.Errorf("cors: invalid origin pattern %q: %w", p, err)
		}
	}
	return nil
}

func compileOrigin(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")$")
}

// CORS sets CORS headers for allowed origins and answers preflight requests.
// Invalid origin patterns are skipped; call Validate at startup to catch them.
func CORS(cfg CORSConfig) Middleware {
	patterns := make([]*regexp.Regexp, 0, len(cfg.AllowedOriginPatterns))
	for _, p := range cfg.AllowedOriginPatterns {
		if re, err := compileOrigin(p); err == nil {
			patterns = append(patterns, re)
		}
	}
	allowed := func(origin string) bool {
		if slices.Contains(cfg.AllowedOrigins, origin) || slices.Contains(cfg.AllowedOrigins, "*") {
			return true
		}
		for _, re := range patterns {
			if re.MatchString(origin) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")
			if origin == "" || !allowed(origin) {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if len(cfg.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposedHeaders, ", "))
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", mirror(cfg.AllowedMethods, r.Header.Get("Access-Control-Request-Method")))
			if hdrs := mirror(cfg.AllowedHeaders, r.Header.Get("Access-Control-Request-Headers")); hdrs != "" {
				h.Set("Access-Control-Allow-Headers", hdrs)
			}
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", fmt.Sprint(cfg.MaxAge))
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// mirror returns the configured list, or the requested value when the list
// allows everything.
func mirror(list []string, requested string) string {
	if slices.Contains(list, "*") {
		return requested
	}
	return strings.Join(list, ", ")
}
