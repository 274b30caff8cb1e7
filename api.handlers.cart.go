package main

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// addCartItemRequest tolerates both casings the web clients use.
type addCartItemRequest struct {
	BookID    string `json:"bookId"`
	BookIDAlt string `json:"BookId"`
	Quantity  *int   `json:"quantity"`
	QtyAlt    *int   `json:"Quantity"`
}

func (req addCartItemRequest) bookID() string {
	if req.BookID != "" {
		return req.BookID
	}
	return req.BookIDAlt
}

func (req addCartItemRequest) quantity() int {
	if req.Quantity != nil {
		return *req.Quantity
	}
	if req.QtyAlt != nil {
		return *req.QtyAlt
	}
	return 1
}

// GetCart serves the cart of the authenticated user.
func (api *APIHandler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	cart, err := api.gateway.FetchCart(r.Context(), token)
	if err != nil {
		api.logger.Error("failed to get cart", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to get cart", zap.String("request.id", requestID), zap.Int("cart.items", len(cart.Items)))
	if err := WriteJSON(w, http.StatusOK, cart); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// AddCartItem puts a book into the cart. The book id must be a well
// formed GUID and the quantity at least one, both checked before any
// backend call. The authoritative cart is sent back on success.
func (api *APIHandler) AddCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	var req addCartItemRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&req) != nil {
		api.logger.Error("failed to decode add cart item request", zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "invalid add cart item request body"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	bookID := req.bookID()
	if !api.idsHandler.IsValid(bookID) {
		api.logger.Error("book id provided is not valid", zap.String("book.id", bookID), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	quantity := req.quantity()
	if quantity < 1 {
		api.logger.Error("quantity provided is not valid", zap.Int("cart.quantity", quantity), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "quantity must be at least 1"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	cart, err := api.gateway.AddCartItem(r.Context(), token, bookID, quantity)
	if err != nil {
		api.logger.Error("failed to add cart item", zap.String("book.id", bookID), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to add cart item", zap.String("book.id", bookID), zap.String("request.id", requestID))
	if err := WriteJSON(w, http.StatusOK, cart); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// RemoveCartItem takes one book out of the cart.
func (api *APIHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	bookID := ps.ByName("bookId")
	if !api.idsHandler.IsValid(bookID) {
		api.logger.Error("book id provided is not valid", zap.String("book.id", bookID), zap.String("request.id", requestID))
		if err := WriteError(w, requestID, http.StatusBadRequest, "book id provided is not valid"); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err := api.gateway.RemoveCartItem(r.Context(), token, bookID); err != nil {
		api.logger.Error("failed to remove cart item", zap.String("book.id", bookID), zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to remove cart item", zap.String("book.id", bookID), zap.String("request.id", requestID))
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ClearCart empties the cart of the authenticated user.
func (api *APIHandler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	token, ok := api.requireToken(w, r)
	if !ok {
		return
	}
	if err := api.gateway.ClearCart(r.Context(), token); err != nil {
		api.logger.Error("failed to clear cart", zap.String("request.id", requestID), zap.Error(err))
		api.respondGatewayError(w, requestID, err)
		return
	}
	api.logger.Info("success to clear cart", zap.String("request.id", requestID))
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
