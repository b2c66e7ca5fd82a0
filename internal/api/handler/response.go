package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-forecast-api/internal/domain"
	"github.com/vfg2006/sales-forecast-api/pkg/apiErrors"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New()
)

// SnapshotReader fornece o último snapshot publicado pelo pipeline
type SnapshotReader interface {
	Latest() *domain.Snapshot
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Error("Erro ao enviar resposta:", err)
	}
}

// latestSnapshot escreve PIPE_002 e retorna nil quando ainda não há execução concluída
func latestSnapshot(w http.ResponseWriter, reader SnapshotReader) *domain.Snapshot {
	snapshot := reader.Latest()
	if snapshot == nil {
		apiErrors.WriteError(w, apiErrors.ErrNoSnapshot, "Nenhuma execução do pipeline concluída ainda", nil)
		return nil
	}
	return snapshot
}
