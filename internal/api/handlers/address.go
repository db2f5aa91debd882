package handlers

import (
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// GetBalance @Summary Get an LST balance
// @Description Reads the LST balance of an address at the chain head
// @Produce json
// @Param network path string true "Network name"
// @Param address path string true "Owner address, 0x prefixed hex"
// @Param lst path string true "LST symbol"
// @Success 200 {object} PublicResponse[services.AmountPublic] "Balance"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 404 {object} types.Error "Error: Unknown network or protocol"
// @Router /v1/networks/{network}/address/{address}/lsts/{lst}/balance [get]
func (h *Handler) GetBalance(request *http.Request) (*Result, *types.Error) {
	balance, err := h.services.GetBalance(
		request.Context(), urlParam(request, "network"), urlParam(request, "address"), urlParam(request, "lst"),
	)
	if err != nil {
		return nil, err
	}
	return NewResult(balance), nil
}

// GetWithdrawals @Summary List tracked withdrawals
// @Description Lists the pending, claiming and claimed withdrawals of an address
// @Produce json
// @Param network path string true "Network name"
// @Param address path string true "Owner address, 0x prefixed hex"
// @Success 200 {object} PublicResponse[[]services.WithdrawalPublic]{array} "Withdrawals"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/networks/{network}/address/{address}/withdrawals [get]
func (h *Handler) GetWithdrawals(request *http.Request) (*Result, *types.Error) {
	withdrawals, err := h.services.GetWithdrawals(
		request.Context(), urlParam(request, "network"), urlParam(request, "address"),
	)
	if err != nil {
		return nil, err
	}
	return NewResult(withdrawals), nil
}
