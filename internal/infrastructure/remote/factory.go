// Package remote selecciona el adaptador del espejo remoto según la
// configuración: postgres, dynamodb o memory.
package remote

import (
	"context"
	"fmt"

	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/dynamo"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/memory"
	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/cotizador-pro/pkg/config"
)

// Backends soportados.
const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// New construye el repositorio remoto del backend configurado. La función de
// cierre libera los recursos del backend (pool de conexiones); para backends
// sin recursos propios es un no-op.
func New(ctx context.Context, cfg config.RemoteConfig) (repository.QuoteRemoteRepository, func(), error) {
	switch cfg.Backend {
	case BackendPostgres, "":
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("backend postgres: %w", err)
		}
		return postgres.NewQuoteRepository(pool), pool.Close, nil

	case BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.Dynamo)
		if err != nil {
			return nil, nil, fmt.Errorf("backend dynamodb: %w", err)
		}
		return dynamo.NewQuoteRepository(client, cfg.Dynamo.TableName), func() {}, nil

	case BackendMemory:
		return memory.NewQuoteRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("backend remoto desconocido: %q", cfg.Backend)
	}
}
