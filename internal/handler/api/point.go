package api

import (
	"net/http"

	reqdto "book-locker/internal/handler/dto/request"
	resdto "book-locker/internal/handler/dto/response"
	"book-locker/internal/handler/httperr"
	"book-locker/internal/usecase/commands"
	"book-locker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	ledger commands.PointLedger
	q      queries.PointQueries
}

func NewPointHandler(ledger commands.PointLedger, q queries.PointQueries) *PointHandler {
	return &PointHandler{ledger: ledger, q: q}
}

// @Summary Get my balance
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BalanceResponse
// @Failure 401 {object} httperr.Response
// @Router /points/balance [get]
func (h *PointHandler) Balance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	view, err := h.q.GetBalance(c.Request.Context(), actor.ID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}

// @Summary List my point transactions
// @Tags points
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Router /points/transactions [get]
func (h *PointHandler) Transactions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	views, err := h.q.ListTransactions(c.Request.Context(), actor.ID, limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	out := make([]resdto.TransactionResponse, 0, len(views))
	for _, v := range views {
		out = append(out, resdto.FromTransactionView(v))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Credit points
// @Description Grant points to a user, e.g. for a donated book.
// @Tags points
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreditPointsRequest true "Credit request"
// @Success 200 {object} resdto.BalanceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /points/credit [post]
func (h *PointHandler) Credit(c *gin.Context) {
	var req reqdto.CreditPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if _, err := h.ledger.Credit(c.Request.Context(), req.UserID, req.Amount, req.Reason); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	view, err := h.q.GetBalance(c.Request.Context(), req.UserID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}
