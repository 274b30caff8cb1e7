package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the public catalog endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.GET("/api/health", m.public(api.GetHealth))
	router.GET("/api/books", m.public(api.GetBooks))
	router.GET("/api/books/:id", m.public(api.GetBook))
	return router
}
