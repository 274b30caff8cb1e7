package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAppClean ensures all registered cleanups run in order, including
// wrappers around error-returning closers like the logs flusher.
func TestAppClean(t *testing.T) {
	var order []string
	flusher := func() error {
		order = append(order, "flusher")
		return errors.New("sync: invalid argument")
	}
	closer := func() {
		order = append(order, "closer")
	}
	app := &App{cleanups: []func(){func() { _ = flusher() }, closer}}
	app.Clean()
	assert.Equal(t, []string{"flusher", "closer"}, order)
}
