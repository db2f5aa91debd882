package handlers

import (
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// GetJob @Summary Get a transaction job
// @Description Returns an in-flight or recently finished job
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} PublicResponse[services.JobPublic] "Job"
// @Failure 404 {object} types.Error "Error: Not Found"
// @Router /v1/jobs/{id} [get]
func (h *Handler) GetJob(request *http.Request) (*Result, *types.Error) {
	job, err := h.services.GetJob(request.Context(), urlParam(request, "id"))
	if err != nil {
		return nil, err
	}
	return NewResult(job), nil
}
