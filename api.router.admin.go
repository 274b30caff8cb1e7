package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupAdminRoutes injects the administration endpoints. Authorization
// is enforced by the backend, the bearer token only transits here.
func (api *APIHandler) SetupAdminRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/api/admin/books", m.public(api.GetAdminBooks))
	router.POST("/api/admin/books", m.public(api.CreateAdminBook))
	router.PUT("/api/admin/books/:id", m.public(api.UpdateAdminBook))
	router.DELETE("/api/admin/books/:id", m.public(api.DeleteAdminBook))
	router.GET("/api/admin/users", m.public(api.GetUsers))
	router.PUT("/api/admin/users/:userId/role", m.public(api.UpdateUserRole))
	router.DELETE("/api/admin/users/:userId", m.public(api.DeleteUser))
	return router
}
