package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/engrosnet/catalog-service/internal/analytics"
	"github.com/engrosnet/catalog-service/internal/analytics/dto"
	"github.com/engrosnet/catalog-service/internal/httpx"
	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	uc     analytics.UseCase
	logger *zap.Logger
}

func NewAnalyticsHandler(uc analytics.UseCase, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AnalyticsHandler) LowStock(c *gin.Context) {
	threshold := -1
	if raw, ok := c.GetQuery("threshold"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			threshold = n
		}
	}

	report, err := h.uc.LowStockReport(c.Request.Context(), threshold)
	if err != nil {
		h.logger.Error("failed to build low stock report", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	w, err := windowFromQuery(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	top, err := h.uc.TopProducts(c.Request.Context(), limit, w)
	if err != nil {
		h.logger.Error("failed to aggregate top products", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": top})
}

func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	w, err := windowFromQuery(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	series, err := h.uc.RevenueSeries(c.Request.Context(), w)
	if err != nil {
		h.logger.Error("failed to aggregate revenue series", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": series})
}

func (h *AnalyticsHandler) Status(c *gin.Context) {
	w, err := windowFromQuery(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	series, err := h.uc.StatusSeries(c.Request.Context(), w)
	if err != nil {
		h.logger.Error("failed to aggregate status series", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": series})
}

func windowFromQuery(c *gin.Context) (dto.Window, error) {
	from, err := dateQuery(c, "from")
	if err != nil {
		return dto.Window{}, err
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		return dto.Window{}, err
	}
	return dto.NewWindow(from, to)
}

func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &model.ValidationError{Field: key, Message: "must be YYYY-MM-DD or RFC3339"}
	}
	return &t, nil
}
