package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupStoreRoutes injects the cart and orders endpoints. All of them
// require a bearer token which is relayed to the backend as-is.
func (api *APIHandler) SetupStoreRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/api/cart", m.public(api.GetCart))
	router.DELETE("/api/cart", m.public(api.ClearCart))
	router.POST("/api/cart/items", m.public(api.AddCartItem))
	router.DELETE("/api/cart/items/:bookId", m.public(api.RemoveCartItem))
	router.POST("/api/orders", m.public(api.CreateOrder))
	router.GET("/api/orders", m.public(api.GetOrders))
	return router
}
