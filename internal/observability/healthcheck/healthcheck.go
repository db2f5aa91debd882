package healthcheck

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/observability/metrics"
	"github.com/lstlabs/lst-staking-service/internal/queue"
)

const checkTimeout = 10 * time.Second

var logger zerolog.Logger = log.Logger

// terminate is swapped in tests.
var terminate = terminateService

// Component is one dependency checked by the cron. A failing fatal component
// terminates the service, the others are only reported.
type Component struct {
	Name  string
	Check func(ctx context.Context) error
	Fatal bool
}

func ChainComponent(client chain.Client) Component {
	return Component{
		Name: "chain",
		Check: func(ctx context.Context) error {
			_, err := client.BlockNumber(ctx)
			return err
		},
	}
}

func DbComponent(client db.DBClient) Component {
	return Component{Name: "db", Check: client.Ping}
}

// QueueComponent mirrors the publisher connection. A dead connection is not
// redialed, so the service stops and lets the orchestrator restart it.
func QueueComponent(queues *queue.Queues) Component {
	return Component{
		Name: "queue",
		Check: func(context.Context) error {
			return queues.IsConnectionHealthy()
		},
		Fatal: true,
	}
}

func StartHealthCheckCron(ctx context.Context, components []Component, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = 60
	}

	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		runChecks(ctx, components)
	})

	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}

func runChecks(ctx context.Context, components []Component) {
	for _, component := range components {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := component.Check(checkCtx)
		cancel()

		metrics.SetComponentHealth(component.Name, err)
		if err == nil {
			continue
		}
		if component.Fatal {
			logger.Error().Err(err).Str("component", component.Name).Msg("component is not healthy")
			terminate()
			return
		}
		logger.Warn().Err(err).Str("component", component.Name).Msg("component is not healthy")
	}
}

func terminateService() {
	logger.Fatal().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}
