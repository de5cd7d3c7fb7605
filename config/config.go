package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SessionSecret        string `mapstructure:"SESSION_SECRET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`

	// AOtD policy knobs. These were magic numbers scattered through the
	// original selection code; they are overridable here and nowhere else.
	InactivityWindowDays int     `mapstructure:"AOTD_INACTIVITY_WINDOW_DAYS"`
	NoRepeatWindowDays   int     `mapstructure:"AOTD_NO_REPEAT_DAYS"`
	ScoreStep            float64 `mapstructure:"AOTD_SCORE_STEP"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS", "SESSION_SECRET", "SCHEDULER_ENABLED",
		"AOTD_INACTIVITY_WINDOW_DAYS", "AOTD_NO_REPEAT_DAYS", "AOTD_SCORE_STEP",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetDefault("AOTD_INACTIVITY_WINDOW_DAYS", 3)
	viper.SetDefault("AOTD_NO_REPEAT_DAYS", 365)
	viper.SetDefault("AOTD_SCORE_STEP", 0.5)

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	ConfigInstance = config
	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"inactivityWindowDays", config.InactivityWindowDays,
		"noRepeatWindowDays", config.NoRepeatWindowDays,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.InactivityWindowDays <= 0 {
		return log.Error(
			"Fatal error: inactivity window must be positive",
			"days", config.InactivityWindowDays,
		)
	}

	if config.NoRepeatWindowDays <= 0 {
		return log.Error(
			"Fatal error: no-repeat window must be positive",
			"days", config.NoRepeatWindowDays,
		)
	}

	if config.ScoreStep <= 0 || config.ScoreStep > 1 {
		return log.Error(
			"Fatal error: score step must be in (0, 1]",
			"step", config.ScoreStep,
		)
	}

	return nil
}
