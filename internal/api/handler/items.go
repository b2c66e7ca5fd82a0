package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

type TopItemsResponse struct {
	RunID string               `json:"run_id"`
	Items []domain.ItemRanking `json:"items"`
}

// GetTopItems retorna o ranking de itens. ?limit=N restringe o resultado.
func GetTopItems(reader SnapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := latestSnapshot(w, reader)
		if snapshot == nil {
			return
		}

		items := snapshot.TopItems
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um inteiro positivo", nil)
				return
			}
			if limit < len(items) {
				items = items[:limit]
			}
		}

		writeJSON(w, http.StatusOK, TopItemsResponse{
			RunID: snapshot.RunID,
			Items: items,
		})
	}
}
