// Package config provides configuration loading, validation, and defaults
// for the IshBot application. Values come from a YAML file overlaid with
// BOT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines all application configuration parameters.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Followup  FollowupConfig  `mapstructure:"followup"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the chat identifiers the bot talks to.
type TelegramConfig struct {
	Token            string        `mapstructure:"token"              validate:"required"`
	ModeratorChatIDs []int64       `mapstructure:"moderator_chat_ids" validate:"min=1"`
	ChannelChatID    int64         `mapstructure:"channel_chat_id"    validate:"required"`
	SendTimeout      time.Duration `mapstructure:"send_timeout"       validate:"min=1s,max=2m"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// FollowupConfig controls the trailing window used by the follow-up sweep.
// The window should match the sweep's tick period so every approved vacancy
// is visited exactly once.
type FollowupConfig struct {
	Window time.Duration `mapstructure:"window" validate:"min=1s"`
}

// MessagesConfig holds every user-facing text the handlers send, so
// deployments can localize them without rebuilding.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	IntakeButton      string `mapstructure:"intake_button"`
	CategoryPrompt    string `mapstructure:"category_prompt"`
	CategoryChosen    string `mapstructure:"category_chosen"`
	CompanyPrompt     string `mapstructure:"company_prompt"`
	TechnologyPrompt  string `mapstructure:"technology_prompt"`
	ContactPrompt     string `mapstructure:"contact_prompt"`
	LocationPrompt    string `mapstructure:"location_prompt"`
	ResponsiblePrompt string `mapstructure:"responsible_prompt"`
	SalaryPrompt      string `mapstructure:"salary_prompt"`
	NotesPrompt       string `mapstructure:"notes_prompt"`
	EmptyInput        string `mapstructure:"empty_input"`
	PreviewHeader     string `mapstructure:"preview_header"`
	Confirmed         string `mapstructure:"confirmed"`
	SentForReview     string `mapstructure:"sent_for_review"`
	Restarted         string `mapstructure:"restarted"`
	CreateFailed      string `mapstructure:"create_failed"`
	AlreadyDecided    string `mapstructure:"already_decided"`
	ApprovedNotice    string `mapstructure:"approved_notice"`
	RejectedNotice    string `mapstructure:"rejected_notice"`
	FilledNotice      string `mapstructure:"filled_notice"`
	StillActiveNotice string `mapstructure:"still_active_notice"`
	GeneralError      string `mapstructure:"general_error"`
	NotAuthorized     string `mapstructure:"not_authorized"`
}

// LoadConfig reads configuration from the given YAML file path, applies
// defaults and BOT_* environment overrides, and validates the result.
// A missing config file is not an error; defaults and environment variables
// are used instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "storage.db")

	// Empty defaults register the keys with viper so BOT_* environment
	// overrides reach Unmarshal even when the config file omits them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.channel_chat_id", 0)
	v.SetDefault("telegram.send_timeout", 10*time.Second)

	// Window and schedule must stay in step: the sweep visits vacancies
	// approved in the trailing window, once per tick.
	v.SetDefault("followup.window", time.Minute)
	v.SetDefault("scheduler.tasks.followup_sweep.enabled", true)
	v.SetDefault("scheduler.tasks.followup_sweep.schedule", "* * * * *")
	v.SetDefault("scheduler.tasks.sqlite_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sqlite_maintenance.schedule", "0 4 * * *")

	v.SetDefault("messages.welcome", "Welcome! This bot lets you submit a job vacancy for your company. Once moderators approve it, the vacancy is posted to the public channel.")
	v.SetDefault("messages.intake_button", "📝 Post a vacancy")
	v.SetDefault("messages.category_prompt", "What kind of position are you hiring for?")
	v.SetDefault("messages.category_chosen", "Category selected.")
	v.SetDefault("messages.company_prompt", "Enter the company name:")
	v.SetDefault("messages.technology_prompt", "Which technologies or skills are required?")
	v.SetDefault("messages.contact_prompt", "Telegram contact (username or link):")
	v.SetDefault("messages.location_prompt", "Where is the position located?")
	v.SetDefault("messages.responsible_prompt", "Responsible person (HR or manager):")
	v.SetDefault("messages.salary_prompt", "Offered salary:")
	v.SetDefault("messages.notes_prompt", "Additional details (working hours, requirements, etc.):")
	v.SetDefault("messages.empty_input", "Please send a non-empty answer.")
	v.SetDefault("messages.preview_header", "Please review the vacancy details:")
	v.SetDefault("messages.confirmed", "Vacancy details confirmed.")
	v.SetDefault("messages.sent_for_review", "Your vacancy was sent to the moderators. It will be posted to the channel once approved.")
	v.SetDefault("messages.restarted", "Vacancy intake restarted.")
	v.SetDefault("messages.create_failed", "Something went wrong while submitting your vacancy. Please start over.")
	v.SetDefault("messages.already_decided", "This vacancy has already been decided.")
	v.SetDefault("messages.approved_notice", "Vacancy approved and posted to the channel.")
	v.SetDefault("messages.rejected_notice", "Vacancy rejected.")
	v.SetDefault("messages.filled_notice", "Marked as filled. The channel post has been updated.")
	v.SetDefault("messages.still_active_notice", "Understood. The vacancy is still active.")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")
	v.SetDefault("messages.not_authorized", "You are not authorized to perform this action.")
}
