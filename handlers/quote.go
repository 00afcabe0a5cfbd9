package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DailyQuote отдаёт мотивационную цитату дня.
func (h *Handler) DailyQuote(c *gin.Context) {
	quote := h.Quotes.DailyQuote(c.Request.Context())
	c.JSON(http.StatusOK, quote)
}
