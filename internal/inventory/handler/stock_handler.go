package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// IdempotencyHeader may carry the key instead of the body field.
const IdempotencyHeader = "Idempotency-Key"

// StockHandler serves transactions.php.
type StockHandler struct {
	svc *service.StockService
}

func NewStockHandler(svc *service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// List GET /transactions.php?materialId=
func (h *StockHandler) List(c *gin.Context) {
	txs, err := h.svc.List(c.Request.Context(), c.Query("materialId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if txs == nil {
		txs = []entity.Transaction{}
	}
	Success(c, txs)
}

// Record POST /transactions.php. Replays answer 200 with the original result.
func (h *StockHandler) Record(c *gin.Context) {
	var req service.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader(IdempotencyHeader)
	}
	result, err := h.svc.Record(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	if result.Replayed {
		c.JSON(http.StatusOK, result)
		return
	}
	Created(c, result)
}
