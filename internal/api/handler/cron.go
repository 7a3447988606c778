package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/internal/scheduler"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeBatchCleanup = "batch-cleanup"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	BatchCleanupService *scheduler.BatchCleanupService
}

// RunCronJob executa manualmente uma cron job
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeBatchCleanup:
			if services.BatchCleanupService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de limpeza de lotes não disponível", nil)
				return
			}
			services.BatchCleanupService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: batch-cleanup", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.BatchCleanupService != nil {
			status[CronJobTypeBatchCleanup] = services.BatchCleanupService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
