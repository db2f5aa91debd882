package services

import (
	"context"
	"math/big"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/types"
)

// Service layer contains the business logic and is used to interact with
// the chain, the transaction pipeline and the tracking store.
type Services struct {
	Network  types.Network
	Registry *registry.Registry
	Chain    chain.Client
	Pipeline *pipeline.Pipeline
	DbClient db.DBClient
	cfg      *config.Config
}

func New(
	cfg *config.Config, reg *registry.Registry, chainClient chain.Client,
	dbClient db.DBClient, p *pipeline.Pipeline,
) *Services {
	return &Services{
		Network: types.Network{
			Name:           cfg.Network.Name,
			ChainID:        new(big.Int).SetUint64(cfg.Network.ChainID),
			RpcURL:         cfg.Network.RpcURL,
			NativeSymbol:   cfg.Network.NativeSymbol,
			NativeDecimals: cfg.Network.NativeDecimals,
		},
		Registry: reg,
		Chain:    chainClient,
		Pipeline: p,
		DbClient: dbClient,
		cfg:      cfg,
	}
}

// DoHealthCheck checks the health of the services by reading the chain head
// and pinging the tracking store.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	if _, err := s.Chain.BlockNumber(ctx); err != nil {
		return err
	}
	return s.DbClient.Ping(ctx)
}
