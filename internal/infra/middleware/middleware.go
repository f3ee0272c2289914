package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/infra/metrics"
	"github.com/juscash/publicacoes-api/pkg/config"
	"github.com/juscash/publicacoes-api/pkg/ratelimit"
	"github.com/juscash/publicacoes-api/pkg/security"
)

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *zap.Logger
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
	cfg                 *config.Config
}

// NewMiddleware cria um novo conjunto de middlewares
func NewMiddleware(cfg *config.Config, keyManager *security.KeyManager, usuarios repository.UsuarioRepository, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Middleware {
	// O rate limiting de login depende do Redis; sem ele, as requisições passam
	var limiter *ratelimit.RedisLimiter
	if cfg.Cache.Type == "redis" && cfg.Cache.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Erro ao conectar ao Redis para rate limiting, limitação desabilitada",
				zap.Error(err),
				zap.String("redis.address", cfg.Cache.Redis.Address))
		} else {
			logger.Info("Conectado ao Redis para rate limiting",
				zap.String("redis.address", cfg.Cache.Redis.Address))
			limiter = ratelimit.NewRedisLimiter(redisClient, logger)
		}
	} else {
		logger.Info("Redis não configurado, rate limiting de login desabilitado")
	}

	return &Middleware{
		logger:              logger,
		authMiddleware:      NewAuthMiddleware(keyManager, usuarios, logger),
		recoveryMiddleware:  NewRecoveryMiddleware(logger),
		securityMiddleware:  NewSecurityMiddleware(logger),
		tracingMiddleware:   NewTracingMiddleware(logger),
		rateLimitMiddleware: NewRateLimitMiddleware(limiter, apiMetrics, logger),
		cfg:                 cfg,
	}
}

// SetMetricsMiddleware configura o middleware de métricas
func (m *Middleware) SetMetricsMiddleware(metricsMiddleware *MetricsMiddleware) {
	m.metricsMiddleware = metricsMiddleware
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return func(c *gin.Context) {
		c.Next() // No-op se não configurado
	}
}

// Authenticate middleware para autenticação de usuários
func (m *Middleware) Authenticate(c *gin.Context) {
	m.authMiddleware.Authenticate(c)
}

// AdminOnly middleware para rotas restritas a administradores
func (m *Middleware) AdminOnly(c *gin.Context) {
	m.authMiddleware.AdminOnly(c)
}

// AdminOrSelf middleware para rotas do administrador ou do próprio usuário
func (m *Middleware) AdminOrSelf(c *gin.Context) {
	m.authMiddleware.AdminOrSelf(c)
}

// LoginRateLimit limita tentativas de login por IP
func (m *Middleware) LoginRateLimit() gin.HandlerFunc {
	return m.rateLimitMiddleware.LoginRateLimit(m.cfg.Auth.LoginRateLimit, m.cfg.Auth.LoginRatePeriod)
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// IgnoreFavicon é um middleware que ignora requisições para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method

		m.logger.Info("request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", clientIP),
		)
	}
}

// SecurityHeaders middleware para adicionar cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS middleware para configurar CORS
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}
