package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/cache"
	"github.com/zen-wellness/Zen-snoopy/services"
	"github.com/zen-wellness/Zen-snoopy/store"
	"github.com/zen-wellness/Zen-snoopy/utils"
)

// Handler держит все зависимости HTTP-слоя; конструируется в main,
// никакого глобального состояния.
type Handler struct {
	Store  *store.Store
	Cache  *cache.Cache
	Stats  *services.StatsService
	Quotes *services.QuoteService
	Logger *zap.Logger
}

func New(st *store.Store, c *cache.Cache, stats *services.StatsService, quotes *services.QuoteService, logger *zap.Logger) *Handler {
	return &Handler{Store: st, Cache: c, Stats: stats, Quotes: quotes, Logger: logger}
}

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators вешает кастомные правила hhmm/dateymd на валидатор
// gin-биндинга; вызывается один раз при старте.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("dateymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}

// idParam парсит :id из пути.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// fail маппит доменные ошибки на HTTP-таксономию и считает метрику.
func (h *Handler) fail(c *gin.Context, handlerName string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		utils.ErrorCount.WithLabelValues(handlerName, "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	utils.ErrorCount.WithLabelValues(handlerName, "internal").Inc()
	h.Logger.Error("handler_error",
		zap.String("handler", handlerName),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (h *Handler) badRequest(c *gin.Context, handlerName string, err error) {
	utils.ErrorCount.WithLabelValues(handlerName, "validation").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
}
