package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthcheckTimeout = 2 * time.Second

// Pinger verifica a disponibilidade de uma dependência
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// HealthcheckHandler responde 200 quando o banco responde, 503 caso contrário.
// Sem pinger, responde apenas o liveness.
func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:   "ok",
			Database: "unknown",
			Time:     time.Now().Format(time.RFC3339),
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logrus.WithError(err).Warn("Healthcheck: banco indisponível")
				status.Status = "degraded"
				status.Database = "down"
				writeJSON(w, http.StatusServiceUnavailable, status)
				return
			}
			status.Database = "up"
		}

		writeJSON(w, http.StatusOK, status)
	})
}
