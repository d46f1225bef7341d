package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupInstruments(base *echo.Group) {
	instrumentGroup := base.Group("/instruments")
	instrumentGroup.GET("", h.listInstruments)
	instrumentGroup.POST("/refresh", h.refreshInstruments)
}

func (h *HttpAPIHandler) listInstruments(c echo.Context) error {
	instruments, err := h.service.ScreenerService.ListUniverse(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list instruments"})
	}
	return c.JSON(http.StatusOK, instruments)
}

// refreshInstruments menjalankan ulang screening kapitalisasi pasar dan
// menyimpan universe terbaru.
func (h *HttpAPIHandler) refreshInstruments(c echo.Context) error {
	instruments, err := h.service.ScreenerService.SelectUniverse(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, instruments)
}
