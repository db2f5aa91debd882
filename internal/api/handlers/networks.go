package handlers

import (
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/types"
)

// GetNetworks @Summary List networks
// @Description Lists the networks served by this instance
// @Produce json
// @Success 200 {object} PublicResponse[[]services.NetworkPublic]{array} "Networks"
// @Router /v1/networks [get]
func (h *Handler) GetNetworks(request *http.Request) (*Result, *types.Error) {
	return NewResult(h.services.GetNetworks(request.Context())), nil
}

// ListLsts @Summary List liquid staking tokens
// @Description Lists the registered LST protocols of a network in registration order
// @Produce json
// @Param network path string true "Network name"
// @Success 200 {object} PublicResponse[[]services.LstPublic]{array} "Protocols"
// @Failure 404 {object} types.Error "Error: Unknown network"
// @Router /v1/networks/{network}/lsts [get]
func (h *Handler) ListLsts(request *http.Request) (*Result, *types.Error) {
	lsts, err := h.services.ListLsts(request.Context(), urlParam(request, "network"))
	if err != nil {
		return nil, err
	}
	return NewResult(lsts), nil
}

// GetLst @Summary Get a liquid staking token
// @Description Returns the protocol descriptor, its description and the current exchange rate when the protocol exposes one
// @Produce json
// @Param network path string true "Network name"
// @Param lst path string true "LST symbol, e.g. aprMON"
// @Success 200 {object} PublicResponse[services.LstDetailPublic] "Protocol"
// @Failure 404 {object} types.Error "Error: Unknown network or protocol"
// @Failure 503 {object} types.Error "Error: RPC unavailable"
// @Router /v1/networks/{network}/lsts/{lst} [get]
func (h *Handler) GetLst(request *http.Request) (*Result, *types.Error) {
	lst, err := h.services.GetLst(request.Context(), urlParam(request, "network"), urlParam(request, "lst"))
	if err != nil {
		return nil, err
	}
	return NewResult(lst), nil
}

// GetLstTvl @Summary Get the TVL of a liquid staking token
// @Description Reads the total value locked of one protocol, in the smallest unit of the native asset
// @Produce json
// @Param network path string true "Network name"
// @Param lst path string true "LST symbol"
// @Success 200 {object} PublicResponse[services.AmountPublic] "TVL"
// @Failure 404 {object} types.Error "Error: Unknown network or protocol"
// @Failure 503 {object} types.Error "Error: RPC unavailable"
// @Router /v1/networks/{network}/lsts/{lst}/tvl [get]
func (h *Handler) GetLstTvl(request *http.Request) (*Result, *types.Error) {
	tvl, err := h.services.GetTvl(request.Context(), urlParam(request, "network"), urlParam(request, "lst"))
	if err != nil {
		return nil, err
	}
	return NewResult(tvl), nil
}

// GetNetworkTvl @Summary Get the TVL of every liquid staking token
// @Produce json
// @Param network path string true "Network name"
// @Success 200 {object} PublicResponse[[]services.LstTvlPublic]{array} "TVL per protocol"
// @Failure 404 {object} types.Error "Error: Unknown network"
// @Failure 503 {object} types.Error "Error: RPC unavailable"
// @Router /v1/networks/{network}/tvl [get]
func (h *Handler) GetNetworkTvl(request *http.Request) (*Result, *types.Error) {
	tvls, err := h.services.GetNetworkTvl(request.Context(), urlParam(request, "network"))
	if err != nil {
		return nil, err
	}
	return NewResult(tvls), nil
}
