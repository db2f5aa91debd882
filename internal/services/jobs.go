package services

import (
	"context"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// GetJob returns an in-flight or retained job. A failed job is returned as
// is, its failure is in the Error field.
func (s *Services) GetJob(ctx context.Context, id string) (*JobPublic, *types.Error) {
	job, err := s.Pipeline.Job(id)
	if err != nil {
		return nil, toApiError(err)
	}
	return newJobPublic(job.Snapshot()), nil
}
