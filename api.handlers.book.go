package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetBooks serves the public catalog. Books coming from the backend
// are normalized before leaving, so the web client never deals with
// missing genres or string-typed years.
func (api *APIHandler) GetBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	raw, err := api.gateway.FetchBooks(r.Context())
	if err != nil {
		api.logger.Error("failed to get books", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	books := make([]Book, 0, len(raw))
	for _, b := range raw {
		books = append(books, api.mapper.NormalizeBook(b))
	}
	api.logger.Info("success to get books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err := WriteJSON(w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetBook serves one normalized catalog entry.
func (api *APIHandler) GetBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("id")
	if !api.idsHandler.IsValid(id) {
		api.logger.Error("book id provided is not valid", zap.String("book.id", id), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	raw, err := api.gateway.FetchBook(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	book := api.mapper.NormalizeBook(*raw)
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err := WriteJSON(w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetHealth probes the backend health endpoint across all candidate
// base urls and reports the outcome.
func (api *APIHandler) GetHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	report := api.gateway.CheckHealth(r.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusBadGateway
	}
	if err := WriteJSON(w, status, report); err != nil {
		api.logger.Error("failed to send health response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAdminBooks serves the full catalog normalized for the
// administration views.
func (api *APIHandler) GetAdminBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	raw, err := api.gateway.ListAdminBooks(r.Context(), token)
	if err != nil {
		api.logger.Error("failed to get admin books", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	books := make([]Book, 0, len(raw))
	for _, b := range raw {
		books = append(books, api.mapper.NormalizeBook(b))
	}
	api.logger.Info("success to get admin books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err := WriteJSON(w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateAdminBook validates the submitted form, rebuilds the backend
// payload and forwards the creation.
func (api *APIHandler) CreateAdminBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	var form BookForm
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&form) != nil {
		api.logger.Error("failed to decode create book request", zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "invalid create book request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	payload, err := api.mapper.BuildBackendPayload(form)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		if werr := WriteError(w, requestID, http.StatusBadRequest, err.Error()); werr != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
		}
		return
	}

	data, err := api.gateway.CreateBook(r.Context(), token, payload)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.auditor.Record(r.Context(), CreateQueue, api.auditEntry("book.create", payload.Title, requestID))
	api.logger.Info("success to create book", zap.String("book.title", payload.Title), zap.String("request.id", requestID))
	if err := WriteRaw(w, http.StatusCreated, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateAdminBook validates the submitted form, rebuilds the backend
// payload and forwards the update.
func (api *APIHandler) UpdateAdminBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	id := ps.ByName("id")
	if !api.idsHandler.IsValid(id) {
		api.logger.Error("book id provided is not valid", zap.String("book.id", id), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	var form BookForm
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&form) != nil {
		api.logger.Error("failed to decode update book request", zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "invalid update book request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	payload, err := api.mapper.BuildBackendPayload(form)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		if werr := WriteError(w, requestID, http.StatusBadRequest, err.Error()); werr != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
		}
		return
	}

	data, err := api.gateway.UpdateBook(r.Context(), token, id, payload)
	if err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.auditor.Record(r.Context(), UpdateQueue, api.auditEntry("book.update", id, requestID))
	api.logger.Info("success to update book", zap.String("book.id", id), zap.String("request.id", requestID))
	if len(data) == 0 {
		data = []byte(`{"success":true}`)
	}
	if err := WriteRaw(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteAdminBook forwards the catalog entry removal.
func (api *APIHandler) DeleteAdminBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	id := ps.ByName("id")
	if !api.idsHandler.IsValid(id) {
		api.logger.Error("book id provided is not valid", zap.String("book.id", id), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	err := api.gateway.DeleteBook(r.Context(), token, id)
	var gerr *GatewayError
	if errors.As(err, &gerr) && gerr.Status == http.StatusNotFound {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.respondGatewayError(w, requestID, err)
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.auditor.Record(r.Context(), DeleteQueue, api.auditEntry("book.delete", id, requestID))
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// auditEntry builds one audit trail record for an admin action.
func (api *APIHandler) auditEntry(action, resource, requestID string) AuditEntry {
	return AuditEntry{
		ID:        api.idsHandler.Generate(AuditIDPrefix),
		Action:    action,
		Resource:  resource,
		RequestID: requestID,
		At:        api.clock.Now().UTC().Format(time.RFC3339),
	}
}
