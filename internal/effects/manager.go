// Package effects manages the lifecycle of gameplay effect modules.
// A module typically registers one or more distortion sources in Start,
// animates their parameters in Update and releases them in Stop.
package effects

import (
	"go.uber.org/zap"

	"Mirage2D/internal/logger"
)

type Module interface {
	Name() string
	Start()
	Update(dt float32)
	Stop()
}

type moduleEntry struct {
	module  Module
	started bool
}

type Manager struct {
	modules []moduleEntry
}

func NewManager() *Manager {
	logger.Init()
	return &Manager{}
}

func (m *Manager) Add(mod Module) {
	m.modules = append(m.modules, moduleEntry{module: mod})
	logger.Log.Info("Effect module added", zap.String("module", mod.Name()))
}

// Remove stops the module if it was started and drops it from the manager.
func (m *Manager) Remove(mod Module) {
	for i := range m.modules {
		if m.modules[i].module == mod {
			if m.modules[i].started {
				m.modules[i].module.Stop()
			}
			// Remove by swapping with last element and truncating
			m.modules[i] = m.modules[len(m.modules)-1]
			m.modules = m.modules[:len(m.modules)-1]
			return
		}
	}
}

// UpdateAll advances every module by dt, starting those not yet started.
func (m *Manager) UpdateAll(dt float32) {
	for i := range m.modules {
		if !m.modules[i].started {
			m.modules[i].module.Start()
			m.modules[i].started = true
		}
		m.modules[i].module.Update(dt)
	}
}

// StopAll stops every started module and clears the manager.
func (m *Manager) StopAll() {
	for i := range m.modules {
		if m.modules[i].started {
			m.modules[i].module.Stop()
		}
	}
	m.modules = m.modules[:0]
}

func (m *Manager) Len() int {
	return len(m.modules)
}
