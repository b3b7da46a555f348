package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/unquiedeveloper/sg-store2/internal/config"
)

var (
	defaultAPIMethods = []string{"GET", "DELETE", "OPTIONS"}
	defaultAPIHeaders = []string{"Origin", "Accept", "Authorization", "Content-Type", "X-Request-ID"}
	exposedAPIHeaders = []string{
		"Content-Disposition",
		"X-Request-ID",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
)

// CORSMiddleware guards the JSON API. Browsers of other origins get the
// receipt download headers and the rate limit headers; cookies are only
// shared with explicitly listed origins.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  orDefaultList(cfg.AllowedMethods, defaultAPIMethods),
		AllowHeaders:  orDefaultList(cfg.AllowedHeaders, defaultAPIHeaders),
		ExposeHeaders: exposedAPIHeaders,
		MaxAge:        12 * time.Hour,
	}

	switch {
	case len(cfg.AllowedOrigins) == 0:
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		corsConfig.AllowCredentials = true
	case len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*":
		corsConfig.AllowAllOrigins = true
	default:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}

func orDefaultList(values, def []string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}
