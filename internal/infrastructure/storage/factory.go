// Package storage arma el almacén de entidades a partir de la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/infrastructure/localstore"
	"github.com/jhoicas/entity-registry/internal/infrastructure/postgres"
	"github.com/jhoicas/entity-registry/internal/infrastructure/remote"
	"github.com/jhoicas/entity-registry/internal/infrastructure/slot"
	"github.com/jhoicas/entity-registry/pkg/config"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// RedisKeyPrefix prefijo de las claves de slot en Redis.
const RedisKeyPrefix = "entity-registry:"

// CloseFunc libera los recursos abiertos por el factory.
type CloseFunc func()

func noop() {}

// OpenSlots abre el backend de slots configurado (memory, file o redis).
func OpenSlots(ctx context.Context, cfg config.StoreConfig) (slot.Storage, CloseFunc, error) {
	switch cfg.SlotBackend {
	case config.SlotBackendMemory:
		return slot.NewMemory(), noop, nil
	case config.SlotBackendFile:
		f, err := slot.NewFile(cfg.SlotDir)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil
	case config.SlotBackendRedis:
		client, err := slot.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return slot.NewRedis(client, RedisKeyPrefix), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("backend de slot desconocido: %q", cfg.SlotBackend)
	}
}

// OpenEntityStore construye el almacén del cliente según STORE_MODE: slot local o backend REST.
func OpenEntityStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.EntityStore, CloseFunc, error) {
	log = logger.OrNop(log)
	switch cfg.Store.Mode {
	case config.StoreModeRemote:
		log.Debug().Str("base_url", cfg.Remote.BaseURL).Msg("almacén remoto")
		return remote.NewEntityClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, log), noop, nil
	case config.StoreModeLocal:
		slots, closeFn, err := OpenSlots(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("backend", cfg.Store.SlotBackend).Str("key", cfg.Store.SlotKey).Msg("almacén local")
		return localstore.New(slots, cfg.Store.SlotKey, localstore.WithLogger(log)), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("STORE_MODE desconocido: %q", cfg.Store.Mode)
	}
}

// OpenServerRepository construye el repositorio del backend HTTP según SERVER_STORE:
// PostgreSQL (con creación del esquema) o slot local.
func OpenServerRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.EntityRepository, CloseFunc, error) {
	log = logger.OrNop(log)
	switch cfg.HTTP.ServerStore {
	case config.ServerStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conectar a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("conectado a PostgreSQL")
		return postgres.NewEntityRepository(pool), pool.Close, nil
	case config.ServerStoreSlot:
		slots, closeFn, err := OpenSlots(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("backend", cfg.Store.SlotBackend).Msg("backend sobre slot local")
		return localstore.New(slots, cfg.Store.SlotKey, localstore.WithLogger(log)), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("SERVER_STORE desconocido: %q", cfg.HTTP.ServerStore)
	}
}
