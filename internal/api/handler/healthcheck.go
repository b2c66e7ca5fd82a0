package handler

import (
	"net/http"
	"time"
)

func HealthcheckHandler(reader SnapshotReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status": "ok",
			"time":   time.Now().UTC(),
		}
		if snapshot := reader.Latest(); snapshot != nil {
			body["last_run_id"] = snapshot.RunID
			body["last_run_at"] = snapshot.GeneratedAt
		}

		writeJSON(w, http.StatusOK, body)
	})
}
