package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/auth"
	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/services"
	"github.com/zen-wellness/Zen-snoopy/store"
)

const userContextKey = "user"

// Auth проверяет bearer-токен, апсертит профиль пользователя и
// гарантирует, что его календарь засеян шаблоном. До успешной проверки
// токена никаких записей в БД не происходит.
func Auth(verifier auth.TokenVerifier, st *store.Store, seeder *services.Seeder, horizonDays int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("token_rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		user, err := st.UpsertUser(claims)
		if err != nil {
			logger.Error("user_upsert_failed",
				zap.String("subject", claims.Subject),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// Сидинг best-effort: его сбой не валит запрос.
		seeder.EnsureScheduled(user.ID, time.Now(), horizonDays)

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// CurrentUser достаёт аутентифицированного пользователя из контекста.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
