package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Mailbox  MailboxConfig
	Scoring  ScoringConfig
	AutoLink AutoLinkConfig
	Sync     SyncConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// LLMConfig selects the chat backend. Backend is either "ollama"
// (any OpenAI-compatible endpoint) or "gemini".
type LLMConfig struct {
	Backend     string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
}

// MailboxConfig selects the mail provider. Provider is either "imap"
// or "graph". The Graph fields are only used for the latter.
type MailboxConfig struct {
	Provider          string
	Host              string
	Port              int
	Username          string
	Password          string
	Folder            string
	UseSSL            bool
	SenderFilter      string
	MaxMessages       int
	AllowedExtensions string

	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
	GraphUserID       string
}

type ScoringConfig struct {
	WeightSkillMatch        int
	WeightExperience        int
	WeightDomainKnowledge   int
	WeightProjectComplexity int
	WeightSoftSkills        int
	ThresholdStrongHire     float64
	ThresholdBorderline     float64
}

type AutoLinkConfig struct {
	MaxLinks  int
	TieWindow float64
}

type SyncConfig struct {
	Enabled  bool
	Interval time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

const minSyncInterval = time.Minute

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hiring_agent"),
		},
		LLM: LLMConfig{
			Backend:     getEnv("LLM_BACKEND", "ollama"),
			Model:       getEnv("LLM_MODEL", "qwen2.5:14b"),
			BaseURL:     getEnv("LLM_BASE_URL", "http://localhost:11434"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", "120s"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
		},
		Mailbox: MailboxConfig{
			Provider:          getEnv("MAILBOX_PROVIDER", "imap"),
			Host:              getEnv("IMAP_HOST", "localhost"),
			Port:              getEnvAsInt("IMAP_PORT", 993),
			Username:          getEnv("IMAP_USERNAME", ""),
			Password:          getEnv("IMAP_PASSWORD", ""),
			Folder:            getEnv("MAILBOX_FOLDER", "INBOX"),
			UseSSL:            getEnvAsBool("IMAP_USE_SSL", true),
			SenderFilter:      getEnv("MAILBOX_SENDER_FILTER", ""),
			MaxMessages:       getEnvAsInt("MAILBOX_MAX_MESSAGES", 50),
			AllowedExtensions: getEnv("MAILBOX_ALLOWED_EXTENSIONS", ".pdf,.doc,.docx,.txt"),
			GraphTenantID:     getEnv("GRAPH_TENANT_ID", ""),
			GraphClientID:     getEnv("GRAPH_CLIENT_ID", ""),
			GraphClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),
			GraphUserID:       getEnv("GRAPH_USER_ID", ""),
		},
		Scoring: ScoringConfig{
			WeightSkillMatch:        getEnvAsInt("WEIGHT_SKILL_MATCH", 40),
			WeightExperience:        getEnvAsInt("WEIGHT_EXPERIENCE", 25),
			WeightDomainKnowledge:   getEnvAsInt("WEIGHT_DOMAIN_KNOWLEDGE", 15),
			WeightProjectComplexity: getEnvAsInt("WEIGHT_PROJECT_COMPLEXITY", 10),
			WeightSoftSkills:        getEnvAsInt("WEIGHT_SOFT_SKILLS", 10),
			ThresholdStrongHire:     getEnvAsFloat("THRESHOLD_STRONG_HIRE", 80),
			ThresholdBorderline:     getEnvAsFloat("THRESHOLD_BORDERLINE", 60),
		},
		AutoLink: AutoLinkConfig{
			MaxLinks:  getEnvAsInt("AUTO_LINK_MAX_LINKS", 3),
			TieWindow: getEnvAsFloat("AUTO_LINK_TIE_WINDOW", 1),
		},
		Sync: SyncConfig{
			Enabled:  getEnvAsBool("SYNC_ENABLED", true),
			Interval: getEnvAsDuration("SYNC_INTERVAL", "5m"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
	}
}

// Validate rejects configurations the scoring and sync engines cannot
// run with. Callers are expected to treat an error as fatal at startup.
func (c *Config) Validate() error {
	sum := c.Scoring.WeightSkillMatch +
		c.Scoring.WeightExperience +
		c.Scoring.WeightDomainKnowledge +
		c.Scoring.WeightProjectComplexity +
		c.Scoring.WeightSoftSkills
	if sum != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", sum)
	}
	if c.Scoring.ThresholdBorderline > c.Scoring.ThresholdStrongHire {
		return fmt.Errorf("borderline threshold %.2f exceeds strong hire threshold %.2f",
			c.Scoring.ThresholdBorderline, c.Scoring.ThresholdStrongHire)
	}
	if c.AutoLink.MaxLinks < 1 {
		return fmt.Errorf("auto link max links must be at least 1, got %d", c.AutoLink.MaxLinks)
	}
	switch c.LLM.Backend {
	case "ollama", "gemini":
	default:
		return fmt.Errorf("unknown LLM backend %q", c.LLM.Backend)
	}
	switch c.Mailbox.Provider {
	case "imap", "graph":
	default:
		return fmt.Errorf("unknown mailbox provider %q", c.Mailbox.Provider)
	}
	if c.Sync.Interval < minSyncInterval {
		c.Sync.Interval = minSyncInterval
	}
	return nil
}

// AllowedExtensions returns the lowercased attachment extension whitelist.
func (c *MailboxConfig) AllowedExtensionsList() []string {
	parts := strings.Split(c.AllowedExtensions, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		exts = append(exts, p)
	}
	return exts
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
