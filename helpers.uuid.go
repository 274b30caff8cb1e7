package main

import (
	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil) // ensure IDsHandler implements UIDHandler.

// UIDHandler is an interface for generating and validating unique identifiers.
type UIDHandler interface {
	Generate(prefix string) string
	IsValid(id string) bool
}

// IDsHandler implements the UIDHandler interface.
type IDsHandler struct{}

// NewIDsHandler returns a ready to use IDsHandler.
func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

// Generate provides a random unique identifier with a custom prefix.
func (idh *IDsHandler) Generate(prefix string) string {
	id, _ := uuid.NewV4()
	return prefix + ":" + id.String()
}

// IsValid checks if a given string is a canonical RFC 4122 UUID in its
// 8-4-4-4-12 textual form with a version between 1 and 5. Backend book
// ids are GUIDs, so anything else is rejected before reaching the wire.
func (idh *IDsHandler) IsValid(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.FromString(id)
	if err != nil {
		return false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return false
	}
	return u.Variant() == uuid.VariantRFC4122
}
