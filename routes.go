package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/middlewares"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
)

func registerRoutes(r gin.IRouter) {
	api := r.Group("/api", middlewares.SessionMiddleware())

	docs := api.Group("/documents/:type")
	docs.POST("", createDocumentHandler)
	docs.GET("/:id", getDocumentHandler)
	docs.PUT("/:id", updateDocumentHandler)
	docs.DELETE("/:id", documentOpHandler(models.DeleteDocument))
	docs.POST("/:id/restore", documentOpHandler(models.RestoreDocument))
	docs.DELETE("/:id/force", documentOpHandler(models.ForceDeleteDocument))
	docs.GET("/:id/outbox", documentOpHandler(outboxOp(models.GetOutboxStatus)))
	docs.POST("/:id/outbox/requeue", documentOpHandler(outboxOp(models.RequeueOutbox)))

	api.GET("/ledgers/:kind/:id/balance", ledgerBalanceHandler)
	api.POST("/counters/:group/:key/reserve", reserveCounterHandler)

	api.POST("/accounts", setupHandler(models.CreateAccount))
	api.POST("/customers", setupHandler(models.CreateCustomer))
	api.POST("/suppliers", setupHandler(models.CreateSupplier))
	api.POST("/items", setupHandler(models.CreateItem))
	api.POST("/currency-exchanges", setupHandler(models.CreateCurrencyExchange))
	api.GET("/accounts/:id", getHandler(models.GetAccount))
	api.GET("/customers/:id", getHandler(models.GetCustomer))
	api.GET("/suppliers/:id", getHandler(models.GetSupplier))
	api.GET("/items/:id", getHandler(models.GetItem))
	api.GET("/items/:id/stock", itemStockHandler)
	api.GET("/items/:id/price-history", itemPriceHistoryHandler)
	api.GET("/outbox", listOutboxHandler)
}

func pathId(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, utils.NewValidationError("invalid id %q", c.Param("id"))
	}
	return id, nil
}

func documentRequest(c *gin.Context, withId bool) (models.DocumentType, int, bool) {
	docType, err := models.DocumentTypeFromSlug(c.Param("type"))
	if err != nil {
		middlewares.RespondError(c, err)
		return "", 0, false
	}
	if !withId {
		return docType, 0, true
	}
	id, err := pathId(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return "", 0, false
	}
	return docType, id, true
}

func createDocumentHandler(c *gin.Context) {
	docType, _, ok := documentRequest(c, false)
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		middlewares.RespondError(c, utils.NewValidationError("unreadable request body"))
		return
	}
	doc, err := models.CreateDocument(c.Request.Context(), docType, payload)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func updateDocumentHandler(c *gin.Context) {
	docType, id, ok := documentRequest(c, true)
	if !ok {
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		middlewares.RespondError(c, utils.NewValidationError("unreadable request body"))
		return
	}
	doc, err := models.UpdateDocument(c.Request.Context(), docType, id, payload)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func getDocumentHandler(c *gin.Context) {
	documentOpHandler(models.GetDocument)(c)
}

func documentOpHandler(fn func(ctx context.Context, docType models.DocumentType, id int) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		docType, id, ok := documentRequest(c, true)
		if !ok {
			return
		}
		doc, err := fn(c.Request.Context(), docType, id)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func ledgerBalanceHandler(c *gin.Context) {
	kind, err := models.LedgerKindFromSlug(c.Param("kind"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	id, err := pathId(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	balance, err := models.GetLedgerBalance(c.Request.Context(), kind, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "id": id, "balance": balance})
}

func reserveCounterHandler(c *gin.Context) {
	defaultValue := int64(1)
	if v := c.Query("default"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			middlewares.RespondError(c, utils.NewValidationError("invalid default %q", v))
			return
		}
		defaultValue = n
	}
	value, err := models.ReserveNextCode(c.Request.Context(), nil, c.Param("group"), c.Param("key"), defaultValue)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": c.Param("group"), "key": c.Param("key"), "value": value})
}

func setupHandler[In any, Out any](fn func(ctx context.Context, input *In) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input In
		if err := c.ShouldBindJSON(&input); err != nil {
			middlewares.RespondError(c, utils.NewValidationError("invalid request body: %s", err.Error()))
			return
		}
		out, err := fn(c.Request.Context(), &input)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func itemPriceHistoryHandler(c *gin.Context) {
	id, err := pathId(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	rows, err := models.ListItemPriceHistory(c.Request.Context(), id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func outboxOp(fn func(ctx context.Context, docType models.DocumentType, id int) (*models.OutboxStatus, error)) func(context.Context, models.DocumentType, int) (any, error) {
	return func(ctx context.Context, docType models.DocumentType, id int) (any, error) {
		return fn(ctx, docType, id)
	}
}

func listOutboxHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := models.ListOutboxByStatus(c.Request.Context(), c.DefaultQuery("status", models.OutboxPublishStatusFailed), limit)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func getHandler[Out any](fn func(ctx context.Context, id int) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathId(c)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		out, err := fn(c.Request.Context(), id)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func itemStockHandler(c *gin.Context) {
	id, err := pathId(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	warehouseId, err := strconv.Atoi(c.DefaultQuery("warehouse_id", "0"))
	if err != nil || warehouseId < 0 {
		middlewares.RespondError(c, utils.NewValidationError("invalid warehouse_id %q", c.Query("warehouse_id")))
		return
	}
	qty, err := models.GetStockQty(c.Request.Context(), id, warehouseId)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "warehouse_id": warehouseId, "qty": qty})
}
