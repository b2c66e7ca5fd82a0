package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/forecasting"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/parsing"
	"github.com/vfg2006/sales-forecast-api/internal/usecases/pipeline"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
	"github.com/vfg2006/sales-forecast-api/pkg/log"
)

// PipelineScheduler é a parte do agendador exposta pela API
type PipelineScheduler interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

type RunResponse struct {
	RunID       string `json:"run_id"`
	Source      string `json:"source"`
	GeneratedAt string `json:"generated_at"`
	Horizon     int    `json:"horizon"`
	Months      int    `json:"months"`
}

// RunPipeline executa o pipeline e aguarda o resultado. Com ?async=true apenas agenda a execução.
func RunPipeline(service pipeline.Pipeliner, syncService PipelineScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if r.URL.Query().Get("async") == "true" {
			if !syncService.TriggerManualSync() {
				writeJSON(w, http.StatusConflict, map[string]any{"message": "Execução já em andamento"})
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]any{"message": "Execução do pipeline iniciada"})
			return
		}

		snapshot, err := service.Run(context.WithoutCancel(r.Context()))
		if err != nil {
			logger.WithError(err).Error("pipeline: execução manual falhou")
			writePipelineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RunResponse{
			RunID:       snapshot.RunID,
			Source:      snapshot.Source,
			GeneratedAt: snapshot.GeneratedAt.Format(time.RFC3339),
			Horizon:     snapshot.Horizon,
			Months:      len(snapshot.MonthlySeries),
		})
	}
}

// GetPipelineStatus retorna o estado do pipeline e do agendador
func GetPipelineStatus(service pipeline.Pipeliner, syncService PipelineScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"pipeline":  service.Status(),
			"scheduler": syncService.GetStatus(),
		})
	}
}

func writePipelineError(w http.ResponseWriter, err error) {
	var parseErr *parsing.ParseError
	var historyErr *forecasting.InsufficientHistoryError

	switch {
	case errors.As(err, &parseErr):
		apiErrors.WriteError(w, apiErrors.ErrMalformedInput, parseErr.Error(), map[string]any{
			"line": parseErr.Line,
		})
	case errors.As(err, &historyErr):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientHistory, historyErr.Error(), map[string]any{
			"have": historyErr.Have,
			"need": historyErr.Need,
		})
	default:
		apiErr := apiErrors.FromError(err, apiErrors.ErrInternalServer)
		apiErrors.WriteError(w, apiErr.Code, apiErr.Message, nil)
	}
}
