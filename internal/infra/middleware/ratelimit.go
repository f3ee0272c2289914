package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/infra/metrics"
	"github.com/juscash/publicacoes-api/pkg/ratelimit"
)

// RateLimitMiddleware gerencia rate limiting
type RateLimitMiddleware struct {
	limiter *ratelimit.RedisLimiter
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting.
// O limiter pode ser nil quando o Redis não está disponível; nesse caso
// as requisições passam sem limitação.
func NewRateLimitMiddleware(limiter *ratelimit.RedisLimiter, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
		metrics: apiMetrics,
	}
}

// LoginRateLimit limita tentativas de login por IP do cliente
func (m *RateLimitMiddleware) LoginRateLimit(limit int, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()

		config := ratelimit.LimitConfig{
			Key:         "login:" + clientIP,
			Limit:       limit,
			Period:      period,
			BurstFactor: 1.0,
		}

		allowed, maxReqs, remaining, resetAfter, err := m.limiter.Allow(c.Request.Context(), config)
		if err != nil {
			// Em caso de falha do limitador, a requisição segue
			m.logger.Error("erro ao verificar rate limit de login", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetAfter).Unix(), 10))

		if !allowed {
			if m.metrics != nil {
				path := c.FullPath()
				if path == "" {
					path = c.Request.URL.Path
				}
				m.metrics.RateLimitExceeded(path, c.Request.Method, "login_ip_limit")
			}

			m.logger.Warn("limite de tentativas de login excedido",
				zap.String("ip", clientIP),
				zap.Int("limit", maxReqs))

			c.Header("Retry-After", strconv.Itoa(int(resetAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"mensagem":    "Muitas tentativas de login. Tente novamente em alguns minutos.",
				"retry_after": int(resetAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// IPRateLimit limita requisições por IP em toda a API
func (m *RateLimitMiddleware) IPRateLimit(limit int, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()

		config := ratelimit.LimitConfig{
			Key:         clientIP,
			Limit:       limit,
			Period:      period,
			BurstFactor: 1.5,
		}

		allowed, maxReqs, remaining, resetAfter, err := m.limiter.Allow(c.Request.Context(), config)
		if err != nil {
			m.logger.Error("erro ao verificar rate limit", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetAfter).Unix(), 10))

		if !allowed {
			if m.metrics != nil {
				path := c.FullPath()
				if path == "" {
					path = c.Request.URL.Path
				}
				m.metrics.RateLimitExceeded(path, c.Request.Method, "ip_limit")
			}

			c.Header("Retry-After", strconv.Itoa(int(resetAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "taxa de requisições excedida",
				"retry_after": int(resetAfter.Seconds()),
			})
			return
		}

		c.Next()
	}
}
