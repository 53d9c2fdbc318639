package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/ai/gemini"
	"github.com/spigell/hh-matcher/internal/ai/hashing"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/secrets"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/store/bolt"
	"github.com/spigell/hh-matcher/internal/store/memory"
	"github.com/spigell/hh-matcher/internal/store/mysql"
	"github.com/spigell/hh-matcher/internal/talent"
)

const (
	providerGemini  = "gemini"
	providerHashing = "hashing"

	backendMemory = "memory"
	backendBolt   = "bolt"
	backendMySQL  = "mysql"

	profilesCollection = "profiles"
	postingsCollection = "postings"
)

// environment is everything a command needs, built from the config.
type environment struct {
	config   *Config
	logger   *zap.Logger
	embedder ai.Embedder
	service  *service.Service
	closers  []func() error
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("closing resource", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// setup builds the logger, the embedder, the collections and the service.
func setup(ctx context.Context) *environment {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Embedding == nil || config.Store == nil || config.Server == nil {
		l.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	env := &environment{config: config}

	env.embedder, err = newEmbedder(ctx, config.Embedding, l)
	if err != nil {
		l.Fatal("creating the embedder",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or embedding.gemini.api-key, or use the hashing provider"),
		)
	}
	env.logger = logger.WithCommonFields(l, config.Embedding.Provider, env.embedder.Model())

	profiles, postings, err := env.openStore(ctx, config.Store)
	if err != nil {
		env.logger.Fatal("opening the store", zap.String("backend", config.Store.Backend), zap.Error(err))
	}

	env.service, err = service.New(service.Deps{
		Profiles: profiles,
		Postings: postings,
		Embedder: env.embedder,
		Logger:   env.logger,
	})
	if err != nil {
		env.logger.Fatal("creating the service", zap.Error(err))
	}

	return env
}

func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, l *zap.Logger) (ai.Embedder, error) {
	switch cfg.Provider {
	case providerHashing:
		return hashing.New(cfg.Dimensions), nil
	case providerGemini:
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("embedding.gemini section is required")
		}
		key, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
			Value: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return gemini.NewEmbedder(ctx, key, cfg.Gemini.Model, cfg.Dimensions, l)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

func (e *environment) openStore(ctx context.Context, cfg *StoreConfig) (store.Collection[talent.Profile], store.Collection[talent.Posting], error) {
	switch cfg.Backend {
	case backendMemory:
		return memory.New[talent.Profile](), memory.New[talent.Posting](), nil

	case backendBolt:
		if cfg.Bolt == nil || cfg.Bolt.Path == "" {
			return nil, nil, fmt.Errorf("store.bolt.path is required")
		}
		db, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, err
		}
		e.closers = append(e.closers, db.Close)

		profiles, err := bolt.NewCollection[talent.Profile](db, profilesCollection)
		if err != nil {
			return nil, nil, err
		}
		postings, err := bolt.NewCollection[talent.Posting](db, postingsCollection)
		if err != nil {
			return nil, nil, err
		}
		return profiles, postings, nil

	case backendMySQL:
		if cfg.MySQL == nil {
			return nil, nil, fmt.Errorf("store.mysql section is required")
		}
		dsn, err := secrets.Load(secrets.Source{
			Name:  "mysql dsn",
			File:  cfg.MySQL.DSNFile,
			Value: cfg.MySQL.DSN,
		})
		if err != nil {
			return nil, nil, err
		}
		db, err := mysql.Open(ctx, dsn, mysql.PoolConfig{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		e.closers = append(e.closers, db.Close)

		profiles, err := mysql.NewCollection[talent.Profile](ctx, db, profilesCollection)
		if err != nil {
			return nil, nil, err
		}
		postings, err := mysql.NewCollection[talent.Posting](ctx, db, postingsCollection)
		if err != nil {
			return nil, nil, err
		}
		return profiles, postings, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
