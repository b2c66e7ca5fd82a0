package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"golang.org/x/time/rate"
)

// RateLimit limita as requisições da rota a perMinute por minuto, com rajada de burst.
// O limite é global para a rota.
func RateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(max(perMinute, 1))), max(burst, 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logrus.WithField("path", r.URL.Path).Warn("Limite de requisições excedido")
				w.Header().Set("Retry-After", "60")
				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Muitas requisições, tente novamente mais tarde", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
