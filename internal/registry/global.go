package registry

import (
	"fmt"
	"log/slog"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry

	pendingMu sync.Mutex
	pending   []Module
)

// Contribute queues a module for the default registry. Module packages call
// this from init, so a blank import is enough to make a module available
// through Default. A contribution made after the default registry is built
// registers into it immediately.
//
// A failing contribution panics: it can only be caused by a duplicate name
// or an invalid record, both programmer errors.
func Contribute(m Module) {
	pendingMu.Lock()
	defer pendingMu.Unlock()

	if defaultReg != nil {
		mustApply(defaultReg, m)
		return
	}
	pending = append(pending, m)
}

// Default returns the process-wide registry. On first call it builds a
// fresh store and drains every contribution made so far, exactly once,
// even under concurrent first access. Call sites should still prefer to
// receive a *Registry explicitly; Default exists for the composition root
// and for packages wired by blank import.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg := New()

		pendingMu.Lock()
		mods := pending
		pending = nil
		for _, m := range mods {
			mustApply(reg, m)
		}
		defaultReg = reg
		pendingMu.Unlock()

		slog.Debug("Default registry initialized.", "contributed_modules", len(mods), "records", reg.Count())
	})
	return defaultReg
}

func mustApply(reg *Registry, m Module) {
	if err := m.Register(reg); err != nil {
		panic(fmt.Sprintf("registry: contributed module failed to register: %v", err))
	}
}
