package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "hh-matcher"
	envPrefix = "HH_MATCHER"
)

type Config struct {
	Embedding *EmbeddingConfig `mapstructure:"embedding"`
	Store     *StoreConfig     `mapstructure:"store"`
	Server    *ServerConfig    `mapstructure:"server"`
}

type EmbeddingConfig struct {
	// Provider is gemini or hashing.
	Provider   string        `mapstructure:"provider"`
	Dimensions int           `mapstructure:"dimensions"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key" json:"-"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type StoreConfig struct {
	// Backend is memory, bolt or mysql.
	Backend string       `mapstructure:"backend"`
	Bolt    *BoltConfig  `mapstructure:"bolt"`
	MySQL   *MySQLConfig `mapstructure:"mysql"`
}

type BoltConfig struct {
	Path string `mapstructure:"path"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn" json:"-"`
	DSNFile         string        `mapstructure:"dsn-file"`
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	RequireSession  bool          `mapstructure:"require-session"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "hh-matcher matches candidate profiles and job postings by semantic similarity",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	if err := viper.BindEnv("embedding.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("store.mysql.dsn-file", envPrefix+"_MYSQL_DSN_FILE"); err != nil {
		log.Fatalf("binding %s_MYSQL_DSN_FILE environment variable: %v", envPrefix, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("store", "", "store backend: memory, bolt or mysql")
	rootCmd.PersistentFlags().String("embedding-provider", "", "embedding provider: gemini or hashing")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("embedding.provider", rootCmd.PersistentFlags().Lookup("embedding-provider"))
}

func setDefaults() {
	viper.SetDefault("embedding.provider", providerHashing)
	viper.SetDefault("embedding.dimensions", 0)
	viper.SetDefault("embedding.gemini.model", "text-embedding-004")
	viper.SetDefault("embedding.gemini.api-key", "")
	viper.SetDefault("store.backend", backendMemory)
	viper.SetDefault("store.bolt.path", app+".db")
	viper.SetDefault("store.mysql.dsn", "")
	viper.SetDefault("store.mysql.max-open-conns", 20)
	viper.SetDefault("store.mysql.max-idle-conns", 5)
	viper.SetDefault("store.mysql.conn-max-lifetime", time.Hour)
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.require-session", false)
	viper.SetDefault("server.shutdown-timeout", 10*time.Second)
}

func initConfig() {
	// Variables from .env are visible to the env lookups below. A missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must parse. Without one, defaults and env are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
