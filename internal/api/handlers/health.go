package handlers

import (
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// HealthCheck @Summary Health check
// @Description Reads the chain head and pings the tracking store
// @Produce json
// @Success 200 {object} PublicResponse[string] "Server is up and running"
// @Failure 500 {object} types.Error "Error: Internal Server Error"
// @Router /healthcheck [get]
func (h *Handler) HealthCheck(request *http.Request) (*Result, *types.Error) {
	err := h.services.DoHealthCheck(request.Context())
	if err != nil {
		return nil, types.NewInternalServiceError(err)
	}

	return NewResult("Server is up and running"), nil
}
