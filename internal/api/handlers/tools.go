package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/services"
	"github.com/lstlabs/lst-staking-service/internal/types"
)

type toolFunc func(
	ctx context.Context, network, symbol string, req services.ToolRequest,
) (*services.JobPublic, bool, *types.Error)

// Stake @Summary Stake native tokens
// @Description Submits a stake transaction and waits for it up to the request wait timeout.
// @Description A job still running after that is answered with 202 and its current snapshot.
// @Accept json
// @Produce json
// @Param network path string true "Network name"
// @Param lst path string true "LST symbol"
// @Param payload body services.ToolRequest true "Amount in the smallest unit and sender address"
// @Success 200 {object} PublicResponse[services.JobPublic] "Confirmed job"
// @Success 202 {object} PublicResponse[services.JobPublic] "Job still running"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 422 {object} types.Error "Error: Contract reverted"
// @Failure 503 {object} types.Error "Error: RPC unavailable"
// @Router /v1/networks/{network}/lsts/{lst}/stake [post]
func (h *Handler) Stake(request *http.Request) (*Result, *types.Error) {
	return h.runTool(request, h.services.Stake)
}

// Unstake @Summary Unstake liquid staking tokens
// @Description Submits an unstake transaction. Request-then-claim protocols return the withdrawal id and its unlock time.
// @Accept json
// @Produce json
// @Param network path string true "Network name"
// @Param lst path string true "LST symbol"
// @Param payload body services.ToolRequest true "Amount in the smallest unit and sender address"
// @Success 200 {object} PublicResponse[services.JobPublic] "Confirmed job"
// @Success 202 {object} PublicResponse[services.JobPublic] "Job still running"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 422 {object} types.Error "Error: Contract reverted"
// @Router /v1/networks/{network}/lsts/{lst}/unstake [post]
func (h *Handler) Unstake(request *http.Request) (*Result, *types.Error) {
	return h.runTool(request, h.services.Unstake)
}

// Claim @Summary Claim an unlocked withdrawal
// @Description Claims a tracked withdrawal once its unbonding period has elapsed
// @Accept json
// @Produce json
// @Param network path string true "Network name"
// @Param lst path string true "LST symbol"
// @Param payload body services.ToolRequest true "Withdrawal id and sender address"
// @Success 200 {object} PublicResponse[services.JobPublic] "Confirmed job"
// @Success 202 {object} PublicResponse[services.JobPublic] "Job still running"
// @Failure 400 {object} types.Error "Error: Withdrawal not yet unlocked"
// @Failure 404 {object} types.Error "Error: Withdrawal not found"
// @Failure 409 {object} types.Error "Error: Withdrawal already claimed"
// @Router /v1/networks/{network}/lsts/{lst}/claim [post]
func (h *Handler) Claim(request *http.Request) (*Result, *types.Error) {
	return h.runTool(request, h.services.Claim)
}

func (h *Handler) runTool(request *http.Request, tool toolFunc) (*Result, *types.Error) {
	payload, err := parseToolRequest(request)
	if err != nil {
		return nil, err
	}
	job, finished, err := tool(request.Context(), urlParam(request, "network"), urlParam(request, "lst"), *payload)
	if err != nil {
		return nil, err
	}
	if !finished {
		return NewAcceptedResult(job), nil
	}
	return NewResult(job), nil
}

func parseToolRequest(request *http.Request) (*services.ToolRequest, *types.Error) {
	var payload services.ToolRequest
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid request payload",
		)
	}
	return &payload, nil
}
