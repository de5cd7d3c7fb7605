package database

import (
	"fmt"

	"cordpal/config"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Cache groups the valkey clients by concern. Chance holds the per-user
// selection odds written by the refresh batch; Events backs the pub/sub bus
// the Discord bot listens on.
type Cache struct {
	General CacheClient
	Chance  CacheClient
	Events  CacheClient
}

const (
	GENERAL_CACHE_INDEX = iota
	CHANCE_CACHE_INDEX
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Error("failed to initialize cache database", "reason", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Chance, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    CHANCE_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create chance valkey client", err)
	}

	cacheDB.Events, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}

func (c *Cache) Close() {
	if c.General != nil {
		c.General.Close()
	}
	if c.Chance != nil {
		c.Chance.Close()
	}
	if c.Events != nil {
		c.Events.Close()
	}
}
