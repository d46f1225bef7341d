package http

import (
	"net/http"
	"time"

	"stock-backtest/pkg/utils"

	"github.com/labstack/echo/v4"
)

type fetchRequest struct {
	Codes []string `json:"codes" validate:"required,min=1"`
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
}

func (h *HttpAPIHandler) SetupFetch(base *echo.Group) {
	fetchGroup := base.Group("/fetch")
	fetchGroup.POST("", h.runFetch)
}

func (h *HttpAPIHandler) runFetch(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(fetchRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	start, end, err := h.resolveFetchRange(req.Start, req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	stats, err := h.service.FetchService.FetchAll(ctx, req.Codes, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch klines"})
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *HttpAPIHandler) resolveFetchRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := utils.Day(time.Now())
	start, err := utils.ParseDate(h.service.FetchService.DefaultStart())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if startStr != "" {
		if start, err = utils.ParseDate(startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		if end, err = utils.ParseDate(endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
