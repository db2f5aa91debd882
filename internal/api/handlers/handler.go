package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/services"
)

type Handler struct {
	config   *config.Config
	services *services.Services
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

// NewAcceptedResult answers 202 for work that is still running.
func NewAcceptedResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusAccepted}
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	return &Handler{
		config:   cfg,
		services: services,
	}, nil
}

func urlParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}
