package commands

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pagewright/burnish/internal/adjust"
	"github.com/pagewright/burnish/internal/config"
	"github.com/pagewright/burnish/internal/engine"
	"github.com/pagewright/burnish/internal/oracle"
	"github.com/pagewright/burnish/pkg/patternstore"
)

// openStore connects to the pattern store configured in burnish.yml.
// The caller owns the returned client and must Close it.
func openStore(cfg *config.BurnishConfig) (*patternstore.Client, error) {
	store, err := patternstore.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	}, cfg.Redis.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pattern store: %w", err)
	}
	return store, nil
}

// buildEngine wires a fully configured engine and its oracle client from the
// configuration. The returned store must be closed by the caller.
func buildEngine(cfg *config.BurnishConfig) (*engine.Engine, *oracle.Client, *patternstore.Client, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	client := oracle.NewClient(oracle.Endpoints{
		Authenticity: cfg.Oracles.AuthenticityURL,
		Realism:      cfg.Oracles.RealismURL,
		Readability:  cfg.Oracles.ReadabilityURL,
		Subjective:   cfg.Oracles.SubjectiveURL,
		Generator:    cfg.Oracles.GeneratorURL,
	}, time.Duration(cfg.Oracles.TimeoutSeconds)*time.Second)

	oracles := engine.Oracles{
		Authenticity: client,
		Realism:      client,
		Readability:  client,
		Subjective:   client.Subjective(),
	}

	policy := engine.Policy{
		RealismThreshold:   *cfg.Quality.RealismThreshold,
		AuthenticityWeight: *cfg.Quality.AuthenticityWeight,
		RealismWeight:      *cfg.Quality.RealismWeight,
		MaxAttempts:        *cfg.Quality.MaxAttempts,
	}

	eng, err := engine.New(policy, oracles, client, store, store, adjust.BandedAdvisor{})
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	return eng, client, store, nil
}
