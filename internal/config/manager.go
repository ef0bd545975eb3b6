package config

import (
	"sync"

	"github.com/orcapzh/ana/internal/logger"
)

// Manager 持有当前配置并负责持久化；读写失败只记录日志，不影响界面
type Manager struct {
	mu   sync.RWMutex
	path string
	cfg  AppConfig
	log  *logger.Logger
}

// NewManager 从 path 加载配置，加载失败时退回默认配置
func NewManager(path string, l *logger.Logger) *Manager {
	if l == nil {
		l = logger.Nop()
	}
	m := &Manager{path: path, log: l.WithComponent("config")}

	cfg, err := Load(path)
	if err != nil {
		m.log.Warnw("load config failed, using defaults", "path", path, "error", err)
		cfg = DefaultConfig()
	}
	if err := ApplyEnv(cfg); err != nil {
		m.log.Warnw("apply env overrides failed", "error", err)
	}
	m.cfg = *cfg
	return m
}

// Path 配置文件路径
func (m *Manager) Path() string {
	return m.path
}

// Get 返回当前配置副本
func (m *Manager) Get() AppConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update 校验并保存配置。保存失败时内存中的配置仍然更新。
func (m *Manager) Update(cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	if err := Save(m.path, &cfg); err != nil {
		m.log.Errorw("save config failed", "path", m.path, "error", err)
		return err
	}
	return nil
}
