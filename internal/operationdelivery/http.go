// Package operationdelivery manages delivery layer of operations over HTTP.
package operationdelivery

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/authorizer/internal/domain"
	"github.com/go-petr/authorizer/pkg/errorspkg"
	"github.com/go-petr/authorizer/pkg/web"
)

// maxBodySize bounds a single operation request.
const maxBodySize = 1 << 20

// Service provides service layer interface needed by operation delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package operationdelivery
type Service interface {
	Process(ctx context.Context, line []byte) ([]byte, error)
	Account(ctx context.Context) (domain.AccountSnapshot, error)
}

// Handler facilitates operation delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns operation handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type data struct {
	Account domain.AccountSnapshot `json:"account"`
}

// Create handles http request to process one operation.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(gctx.Writer, gctx.Request.Body, maxBodySize))
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	res, err := h.service.Process(ctx, body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedInput),
			errors.Is(err, domain.ErrMissingTime),
			errors.Is(err, domain.ErrInvalidTime):
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		l.Error().Stack().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	if res == nil {
		gctx.Status(http.StatusNoContent)
		return
	}

	gctx.Data(http.StatusOK, "application/json; charset=utf-8", res)
}

// GetAccount handles http request to get the current account.
func (h *Handler) GetAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	account, err := h.service.Account(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotInitialized) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{Account: account}})
}
