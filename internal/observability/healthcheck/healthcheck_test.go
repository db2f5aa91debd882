package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/queue"
	queueclient "github.com/lstlabs/lst-staking-service/internal/queue/client"
	"github.com/lstlabs/lst-staking-service/internal/testutil/fakechain"
)

type closedQueueClient struct {
	queueclient.QueueClient
}

func (closedQueueClient) GetQueueName() string {
	return queueclient.JobEventsQueueName
}

func (closedQueueClient) Ping() error {
	return errors.New("connection closed")
}

func stubTerminate(t *testing.T) *int {
	calls := 0
	terminate = func() { calls++ }
	t.Cleanup(func() { terminate = terminateService })
	return &calls
}

func TestHealthyComponents(t *testing.T) {
	calls := stubTerminate(t)

	runChecks(context.Background(), []Component{
		ChainComponent(fakechain.New(1)),
		DbComponent(db.NewMemoryStore()),
	})
	assert.Zero(t, *calls)
}

func TestChainFailureIsReportedOnly(t *testing.T) {
	calls := stubTerminate(t)
	fake := fakechain.New(1)
	fake.SetBlockNumberErr(chain.ErrRpcUnavailable)

	checked := false
	runChecks(context.Background(), []Component{
		ChainComponent(fake),
		{Name: "next", Check: func(context.Context) error { checked = true; return nil }},
	})
	assert.Zero(t, *calls)
	assert.True(t, checked)
}

func TestQueueFailureTerminates(t *testing.T) {
	calls := stubTerminate(t)
	queues := queue.NewWithClient(closedQueueClient{}, time.Second)

	checked := false
	runChecks(context.Background(), []Component{
		QueueComponent(queues),
		{Name: "next", Check: func(context.Context) error { checked = true; return nil }},
	})
	assert.Equal(t, 1, *calls)
	assert.False(t, checked)
}

func TestChecksAreBounded(t *testing.T) {
	stubTerminate(t)
	var deadline time.Time
	runChecks(context.Background(), []Component{{
		Name: "slow",
		Check: func(ctx context.Context) error {
			d, ok := ctx.Deadline()
			require.True(t, ok)
			deadline = d
			return nil
		},
	}})
	assert.WithinDuration(t, time.Now().Add(checkTimeout), deadline, time.Second)
}

func TestStartHealthCheckCronStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, StartHealthCheckCron(ctx, nil, 1))
	cancel()
}
