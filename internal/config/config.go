package config

import "github.com/bahasabuddy/api/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Progress ProgressConfig `mapstructure:"progress"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ProgressConfig contains tunables for the progress engine. Zero values fall
// back to the documented defaults at load time.
type ProgressConfig struct {
	XPPerCardReview int `mapstructure:"xp_per_card_review" validate:"gte=0"`
	ReviewBatchSize int `mapstructure:"review_batch_size" validate:"gte=0"`
	GoalLessons     int `mapstructure:"goal_lessons" validate:"gte=0"`
	GoalCards       int `mapstructure:"goal_cards" validate:"gte=0"`
	GoalChatMinutes int `mapstructure:"goal_chat_minutes" validate:"gte=0"`
	GoalXP          int `mapstructure:"goal_xp" validate:"gte=0"`
}

// GoalTargets converts the configured daily goal defaults into the domain
// representation used when creating a learner's first goal row for a day.
func (c ProgressConfig) GoalTargets() domain.GoalTargets {
	return domain.GoalTargets{
		Lessons:     c.GoalLessons,
		Cards:       c.GoalCards,
		ChatMinutes: c.GoalChatMinutes,
		XP:          c.GoalXP,
	}
}
