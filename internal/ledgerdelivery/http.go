// Package ledgerdelivery manages delivery layer of ledger operations.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
	"github.com/go-petr/wallet-ledger/pkg/web"
)

// idempotencyKeyHeader carries the caller-supplied opaque key that makes
// topup and charge retries safe.
const idempotencyKeyHeader = "Idempotency-Key"

var errMissingIdempotencyKey = errors.New("missing Idempotency-Key header")

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Apply(ctx context.Context, arg domain.ApplyParams) (domain.ApplyResult, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) Handler {
	return Handler{service: ls}
}

type applyRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Amount    string `json:"amount" binding:"required,amount"`
}

type applyData struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
	NewBalance    string `json:"new_balance"`
}
type applyResponse struct {
	Data applyData `json:"data,omitempty"`
}

// TopUp handles http request to credit an account.
func (h *Handler) TopUp(gctx *gin.Context) {
	h.apply(gctx, domain.KindCredit)
}

// Charge handles http request to debit an account.
func (h *Handler) Charge(gctx *gin.Context) {
	h.apply(gctx, domain.KindDebit)
}

func (h *Handler) apply(gctx *gin.Context, kind domain.TransactionKind) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req applyRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	key := gctx.GetHeader(idempotencyKeyHeader)
	if key == "" {
		l.Info().Msg(errMissingIdempotencyKey.Error())
		gctx.JSON(http.StatusBadRequest, web.Error(errMissingIdempotencyKey))

		return
	}

	result, err := h.service.Apply(ctx, domain.ApplyParams{
		AccountID:      req.AccountID,
		IdempotencyKey: key,
		Kind:           kind,
		Amount:         req.Amount,
	})
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidAmount, domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrTooManyRetries:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := applyResponse{
		Data: applyData{
			AccountID:     result.Transaction.AccountID,
			TransactionID: result.Transaction.ID,
			NewBalance:    result.Balance,
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}
type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// ListTransactions handles http request to list an account's transactions.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	transactions, err := h.service.ListTransactions(ctx, req.ID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseTransactions{
		Data: dataTransactions{transactions},
	}

	gctx.JSON(http.StatusOK, res)
}
