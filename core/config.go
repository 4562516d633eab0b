package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// supported database engines
const (
	EnginePostgres = "postgres"
	EngineSqlite   = "sqlite"
)

// supported AI providers
const (
	AIProviderOpenRouter = "openrouter"
	AIProviderGemini     = "gemini"
	AIProviderNone       = "none"
)

type (
	Config struct {
		Env                       string
		Debug                     bool
		TestMode                  bool
		AppName                   string
		Build                     string
		WorkDir                   string
		SecretKey                 string
		DefaultFromEmail          mail.Address
		FrontendBaseURL           string
		PasswordResetTimeoutDelta time.Duration
		RollbarToken              string
		SendgridAPIKey            string

		Server     ServerConfig
		Database   DatabaseConfig
		AI         AIConfig
		Chat       ChatConfig
		Clustering ClusteringConfig
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		MaxUploadSize             int64
		CORSAllowOrigins          []string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite file; ":memory:" for a throwaway DB
	}

	AIConfig struct {
		Provider                string
		BaseURL                 string
		APIKey                  string
		RecommendationModel     string
		ChatModel               string
		PersonalChatModel       string
		Temperature             float64
		RecommendationMaxTokens int
		ChatMaxTokens           int
		PersonalMaxTokens       int
		HistoryWindow           int
		Timeout                 time.Duration
	}

	ChatConfig struct {
		DefaultProfesorID int
		SchoolName        string
	}

	ClusteringConfig struct {
		K          int
		Eps        float64
		MinSamples int
		NInit      int
		Seed       int64
	}
)

func (c DatabaseConfig) Address() string {
	if c.Port == "" {
		return c.Host
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig reads the app configuration from (by ascending priority):
// defaults, `config/.env.<env>` and environment variables prefixed with the env name (e.g. `DEV_DEBUG`).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Tutoria")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "s9-tutoria-%kq2n!wq0vh+3r=ty7@z$1x!(cfk&0l#8pe_m")
	v.SetDefault("defaultFromEmail", "Tutoria <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:8001")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridAPIKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":8001")
	v.SetDefault("server.debugHost", ":4001")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 30*time.Minute)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.maxUploadSize", int64(10<<20))
	v.SetDefault("server.corsAllowOrigins", []string{"*"})

	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "tutoria")
	v.SetDefault("database.user", "tutoria")
	v.SetDefault("database.password", "tutoria")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "tutoria.db")

	v.SetDefault("ai.provider", AIProviderOpenRouter)
	v.SetDefault("ai.baseURL", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.recommendationModel", "deepseek/deepseek-r1:free")
	v.SetDefault("ai.chatModel", "deepseek/deepseek-r1:free")
	v.SetDefault("ai.personalChatModel", "deepseek/deepseek-chat-v3-0324:free")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.recommendationMaxTokens", 2048)
	v.SetDefault("ai.chatMaxTokens", 4096)
	v.SetDefault("ai.personalMaxTokens", 2048)
	v.SetDefault("ai.historyWindow", 10)
	v.SetDefault("ai.timeout", 90*time.Second)

	v.SetDefault("chat.defaultProfesorID", 1)
	v.SetDefault("chat.schoolName", "San Martín de Porres")

	v.SetDefault("clustering.k", 3)
	v.SetDefault("clustering.eps", 0.5)
	v.SetDefault("clustering.minSamples", 2)
	v.SetDefault("clustering.nInit", 10)
	v.SetDefault("clustering.seed", int64(42))

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.engine", EngineSqlite)
		v.SetDefault("database.path", ":memory:")
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}

	conf := &Config{
		Env:                       env,
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		Build:                     v.GetString("build"),
		WorkDir:                   workDir,
		SecretKey:                 v.GetString("secretKey"),
		DefaultFromEmail:          *from,
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		RollbarToken:              v.GetString("rollbarToken"),
		SendgridAPIKey:            v.GetString("sendgridAPIKey"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Addr:                      v.GetString("server.addr"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			MaxUploadSize:             v.GetInt64("server.maxUploadSize"),
			CORSAllowOrigins:          v.GetStringSlice("server.corsAllowOrigins"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
		},
		AI: AIConfig{
			Provider:                v.GetString("ai.provider"),
			BaseURL:                 strings.TrimSuffix(v.GetString("ai.baseURL"), "/"),
			APIKey:                  v.GetString("ai.apiKey"),
			RecommendationModel:     v.GetString("ai.recommendationModel"),
			ChatModel:               v.GetString("ai.chatModel"),
			PersonalChatModel:       v.GetString("ai.personalChatModel"),
			Temperature:             v.GetFloat64("ai.temperature"),
			RecommendationMaxTokens: v.GetInt("ai.recommendationMaxTokens"),
			ChatMaxTokens:           v.GetInt("ai.chatMaxTokens"),
			PersonalMaxTokens:       v.GetInt("ai.personalMaxTokens"),
			HistoryWindow:           v.GetInt("ai.historyWindow"),
			Timeout:                 v.GetDuration("ai.timeout"),
		},
		Chat: ChatConfig{
			DefaultProfesorID: v.GetInt("chat.defaultProfesorID"),
			SchoolName:        v.GetString("chat.schoolName"),
		},
		Clustering: ClusteringConfig{
			K:          v.GetInt("clustering.k"),
			Eps:        v.GetFloat64("clustering.eps"),
			MinSamples: v.GetInt("clustering.minSamples"),
			NInit:      v.GetInt("clustering.nInit"),
			Seed:       v.GetInt64("clustering.seed"),
		},
	}
	if err := conf.validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

func (c *Config) validate() error {
	switch c.Database.Engine {
	case EnginePostgres, EngineSqlite:
	default:
		return fmt.Errorf("unsupported database engine %q", c.Database.Engine)
	}
	switch c.AI.Provider {
	case AIProviderOpenRouter, AIProviderGemini, AIProviderNone:
	default:
		return fmt.Errorf("unsupported AI provider %q", c.AI.Provider)
	}
	if c.Clustering.K < 1 || c.Clustering.NInit < 1 || c.Clustering.MinSamples < 1 {
		return fmt.Errorf("invalid clustering parameters %+v", c.Clustering)
	}
	return nil
}
