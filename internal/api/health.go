package api

import (
	"net/http"

	"github.com/movnaglobal/chat-service/internal/log"
)

// health answers liveness probes. It carries no dependencies; a 200 only
// means the process is serving.
func health(logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
