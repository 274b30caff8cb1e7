package main

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetUsers serves all accounts for the administration views.
func (api *APIHandler) GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	data, err := api.gateway.ListUsers(r.Context(), token)
	if err != nil {
		api.logger.Error("failed to get users", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to get users", zap.String("request.id", requestID))
	if err := WriteRaw(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateUserRole sets the role of an account. The submitted role is
// normalized to its canonical form before reaching the backend, and
// anything unexpected is rejected here.
func (api *APIHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	userID := ps.ByName("userId")

	var body struct {
		Role interface{} `json:"role"`
	}
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&body) != nil {
		api.logger.Error("failed to decode update role request", zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "invalid update role request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	role, err := NormalizeRole(body.Role)
	if err != nil {
		api.logger.Error("failed to update user role", zap.String("user.id", userID), zap.String("request.id", requestID), zap.Error(err))
		if werr := WriteError(w, requestID, http.StatusBadRequest, err.Error()); werr != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
		}
		return
	}

	data, err := api.gateway.UpdateUserRole(r.Context(), token, userID, role)
	if err != nil {
		api.logger.Error("failed to update user role", zap.String("user.id", userID), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.auditor.Record(r.Context(), UpdateQueue, api.auditEntry("user.role", userID+":"+role, requestID))
	api.logger.Info("success to update user role", zap.String("user.id", userID), zap.String("user.role", role), zap.String("request.id", requestID))
	if err := WriteRaw(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteUser removes an account.
func (api *APIHandler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	userID := ps.ByName("userId")
	data, err := api.gateway.DeleteUser(r.Context(), token, userID)
	if err != nil {
		api.logger.Error("failed to delete user", zap.String("user.id", userID), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.auditor.Record(r.Context(), DeleteQueue, api.auditEntry("user.delete", userID, requestID))
	api.logger.Info("success to delete user", zap.String("user.id", userID), zap.String("request.id", requestID))
	if err := WriteRaw(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
