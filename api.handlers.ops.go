package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func (api *APIHandler) OpsHandlerWrapper(h http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
}

func (api *APIHandler) GetCPUProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Profile(w, r)
}

func (api *APIHandler) GetTraceProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Trace(w, r)
}

func (api *APIHandler) GetSymbol(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Symbol(w, r)
}

func (api *APIHandler) GetCmdLine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pprof.Cmdline(w, r)
}

// GetAuditTrail serves the recorded admin actions for the internal
// ops users, oldest first.
func (api *APIHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if api.auditStore == nil {
		if err := WriteError(w, requestID, http.StatusServiceUnavailable, "audit trail is not enabled"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	entries, err := api.auditStore.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get audit trail", zap.String("request.id", requestID), zap.Error(err))
		if werr := WriteError(w, requestID, http.StatusInternalServerError, "failed to get audit trail"); werr != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
		}
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requestid": requestID,
		"total":     len(entries),
		"entries":   entries,
	}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
