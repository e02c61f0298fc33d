// Package testutil provides canned modules and helpers for registry tests.
package testutil

import (
	"errors"
	"sync/atomic"

	"github.com/vk/modregistry/internal/registry"
)

// Widget is a trivial capability implementation used across tests.
type Widget struct {
	ModName string
	ModType string
	Serial  int64
}

// Name returns the widget's registry name.
func (w *Widget) Name() string { return w.ModName }

// ModuleType returns the widget's coarse type tag.
func (w *Widget) ModuleType() string { return w.ModType }

// StaticModule registers one widget factory under a fixed name. Each
// created instance gets a unique serial number, so tests can prove that
// two creates produce two independent instances.
type StaticModule struct {
	ModName string
	ModType string
	Tags    []string

	created atomic.Int64
}

// Register registers the widget factory with the registry.
func (m *StaticModule) Register(r *registry.Registry) error {
	meta := registry.NewMetadata(m.ModName, m.ModType, "factory", "internal/testutil", "Widget")
	meta.Tags = m.Tags
	return r.RegisterWithMetadata(m.ModName, m.ModType, func() (any, error) {
		return &Widget{
			ModName: m.ModName,
			ModType: m.ModType,
			Serial:  m.created.Add(1),
		}, nil
	}, meta)
}

// Created returns how many times the module's factory has run.
func (m *StaticModule) Created() int64 {
	return m.created.Load()
}

// ErrFactoryBroken is what a FailingModule's factory always returns.
var ErrFactoryBroken = errors.New("factory is broken")

// FailingModule registers a factory that always fails, for exercising the
// construction-error path.
type FailingModule struct {
	ModName string
}

// Register registers the always-failing factory with the registry.
func (m *FailingModule) Register(r *registry.Registry) error {
	return r.Register(m.ModName, "test", func() (any, error) {
		return nil, ErrFactoryBroken
	})
}
