package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig holds the session lifecycle policy.
type SessionConfig struct {
	// MaxSessionsPerUser caps concurrent active sessions per user.
	// Creating a session beyond the cap evicts the least recently active one.
	MaxSessionsPerUser int `mapstructure:"max_sessions_per_user"`
	// InactivityMinutes is the sliding expiration window. Each activity
	// update pushes expires_at to now + window.
	InactivityMinutes int `mapstructure:"inactivity_minutes"`
	// MaxLifetimeHours is the absolute cap; sliding extension never pushes
	// expires_at past created_at + max lifetime.
	MaxLifetimeHours int `mapstructure:"max_lifetime_hours"`
	// CacheTTLSeconds is the advisory read-cache TTL. Kept seconds-scale so
	// a stale cache entry can never outlive an invalidation by much.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
	// CleanupIntervalMinutes is the background sweep cadence.
	CleanupIntervalMinutes int `mapstructure:"cleanup_interval_minutes"`
	// SyncIntervalMinutes is the provider reconciliation cadence. Kept much
	// longer than the cleanup sweep since every pass calls the provider API.
	SyncIntervalMinutes int `mapstructure:"sync_interval_minutes"`
	// RetentionDays is how long terminal (invalidated/expired) rows are kept
	// before hard deletion.
	RetentionDays int `mapstructure:"retention_days"`
}

func (s *SessionConfig) InactivityWindow() time.Duration {
	return time.Duration(s.InactivityMinutes) * time.Minute
}

func (s *SessionConfig) MaxLifetime() time.Duration {
	return time.Duration(s.MaxLifetimeHours) * time.Hour
}

func (s *SessionConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

func (s *SessionConfig) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupIntervalMinutes) * time.Minute
}

func (s *SessionConfig) SyncInterval() time.Duration {
	return time.Duration(s.SyncIntervalMinutes) * time.Minute
}

func (s *SessionConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

// ProviderConfig configures the external identity provider client.
type ProviderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	SecretKey      string `mapstructure:"secret_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (p *ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}
