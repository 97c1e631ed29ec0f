package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string

		Server struct {
			Addr            string
			DebugHost       string
			ShutdownTimeout time.Duration
		}

		Database struct {
			Engine        string
			Name          string
			User          string
			Password      string
			AdminUser     string
			AdminPassword string
			Host          string
			Port          int
			DisableTLS    bool
		}

		Sync SyncConfig

		CacheDir     string
		RollbarToken string
	}

	// SyncConfig drives the sync coordinator's I/O behavior: reachability
	// probing and retried reads/writes with exponential backoff.
	SyncConfig struct {
		ProbeURL      string
		ProbeTimeout  time.Duration
		ReadAttempts  int
		WriteAttempts int
		BackoffBase   time.Duration
		BackoffCap    time.Duration
	}
)

func (c *Config) DatabaseAddress() string {
	return fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("serverAddr", ":8080")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "alama")
	v.SetDefault("dbUser", "alama")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("syncProbeURL", "https://www.google.com/generate_204")
	v.SetDefault("syncProbeTimeout", 5*time.Second)
	v.SetDefault("syncReadAttempts", 3)
	v.SetDefault("syncWriteAttempts", 2)
	v.SetDefault("syncBackoffBase", time.Second)
	v.SetDefault("syncBackoffCap", 30*time.Second)
	v.SetDefault("cacheDir", filepath.Join(os.TempDir(), "alama-cache"))
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:    v.GetBool("debug"),
		TestMode: testMode,
		Env:      env,
		Build:    v.GetString("build"),
	}
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugHost = v.GetString("serverDebugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.Database.Engine = v.GetString("dbEngine")
	conf.Database.Name = v.GetString("dbName")
	conf.Database.User = v.GetString("dbUser")
	conf.Database.Password = v.GetString("dbPassword")
	conf.Database.AdminUser = v.GetString("dbAdminUser")
	conf.Database.AdminPassword = v.GetString("dbAdminPassword")
	conf.Database.Host = v.GetString("dbHost")
	conf.Database.Port = v.GetInt("dbPort")
	conf.Database.DisableTLS = v.GetBool("dbDisableTLS")
	conf.Sync = SyncConfig{
		ProbeURL:      v.GetString("syncProbeURL"),
		ProbeTimeout:  v.GetDuration("syncProbeTimeout"),
		ReadAttempts:  v.GetInt("syncReadAttempts"),
		WriteAttempts: v.GetInt("syncWriteAttempts"),
		BackoffBase:   v.GetDuration("syncBackoffBase"),
		BackoffCap:    v.GetDuration("syncBackoffCap"),
	}
	conf.CacheDir = v.GetString("cacheDir")
	conf.RollbarToken = v.GetString("rollbarToken")
	return conf
}
