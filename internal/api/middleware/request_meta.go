package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-EventBookingService/pkg/actor"
)

// RequestMeta кладет в контекст IP и User-Agent клиента для журнала аудита
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := actor.FromContext(r.Context())
		a.IP = ClientIP(r)
		a.UserAgent = r.UserAgent()
		next.ServeHTTP(w, r.WithContext(actor.WithContext(r.Context(), a)))
	})
}

// ClientIP первый адрес из X-Forwarded-For, иначе адрес соединения
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
