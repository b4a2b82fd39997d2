package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/modshipapp/modship/internal/http/response"
)

// requireLoopback rejects requests whose peer is not a loopback address.
// The API carries local file paths and drives a signed-in Steam session;
// nothing off-machine has any business calling it even if the listener
// is misconfigured onto a routable interface.
func requireLoopback(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// No port in RemoteAddr, as with some test transports.
				host = r.RemoteAddr
			}

			ip := net.ParseIP(host)
			if ip == nil || !ip.IsLoopback() {
				logger.Warn("rejected non-loopback request",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				response.Forbidden(w, "This API only accepts local connections", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
