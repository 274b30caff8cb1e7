package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// ValidateOrderRequest is a helper function to check the content
// of an order submission before it reaches the backend.
func ValidateOrderRequest(order *OrderRequest) error {
	if len(order.Items) == 0 {
		return missingFieldError("items")
	}
	if len(strings.TrimSpace(order.CustomerName)) == 0 {
		return missingFieldError("customerName")
	}
	if !IsValidEmail(order.CustomerEmail) {
		return missingFieldError("customerEmail")
	}
	if len(strings.TrimSpace(order.ShippingAddress)) < 10 {
		return missingFieldError("shippingAddress")
	}
	return nil
}

// IsValidEmail applies a loose shape check on an email address.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot < 1 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// CreateOrder validates an order submission and forwards it. The
// backend response body is relayed untouched.
func (api *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	var order OrderRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&order) != nil {
		api.logger.Error("failed to decode create order request", zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "invalid create order request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := ValidateOrderRequest(&order); err != nil {
		api.logger.Error("failed to create order", zap.String("request.id", requestID), zap.Error(err))
		if werr := WriteError(w, requestID, http.StatusBadRequest, err.Error()); werr != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(werr))
		}
		return
	}

	data, err := api.gateway.PlaceOrder(r.Context(), token, order)
	if err != nil {
		api.logger.Error("failed to create order", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to create order", zap.String("request.id", requestID), zap.Int("order.items", len(order.Items)))
	if err := WriteRaw(w, http.StatusCreated, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOrders serves the orders of the authenticated user, raw.
func (api *APIHandler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	data, err := api.gateway.ListOrders(r.Context(), token)
	if err != nil {
		api.logger.Error("failed to get orders", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to get orders", zap.String("request.id", requestID))
	if err := WriteRaw(w, http.StatusOK, data); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
