// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//account credentials come from env only, never from yaml
	Email    string `yaml:"-"`
	Password string `yaml:"-"`

	//Search criteria
	Keywords        string `yaml:"keywords"`
	GeoID           string `yaml:"geo_id"`
	TimePosted      string `yaml:"time_posted"`
	JobType         string `yaml:"job_type"`
	ExperienceLevel string `yaml:"experience_level"`
	Count           int    `yaml:"count"`
	StartPage       int    `yaml:"start_page"`

	//Telegram delivery (optional)
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	//Paths
	TrackerPath string `yaml:"tracker_path"`
	LogsPath    string `yaml:"logs_path"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	cfg.Email = os.Getenv("LINKEDIN_EMAIL")
	cfg.Password = os.Getenv("LINKEDIN_PASSWORD")

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.Keywords == "" {
		cfg.Keywords = "angular"
	}

	if cfg.GeoID == "" {
		cfg.GeoID = "103644278" //United States
	}

	if cfg.Count == 0 {
		cfg.Count = 25
	}

	if cfg.TrackerPath == "" {
		cfg.TrackerPath = ".cache"
	}

	if cfg.LogsPath == "" {
		cfg.LogsPath = "logs"
	}

	//Validate required fields
	if cfg.Email == "" {
		log.Fatal("LINKEDIN_EMAIL is required")
	}

	if cfg.Password == "" {
		log.Fatal("LINKEDIN_PASSWORD is required")
	}

	return cfg
}
