package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/juscash/publicacoes-api/internal/adapter/database"
	"github.com/juscash/publicacoes-api/internal/adapter/http"
	"github.com/juscash/publicacoes-api/internal/app/auth"
	"github.com/juscash/publicacoes-api/internal/app/publicacao"
	"github.com/juscash/publicacoes-api/internal/app/usuario"
	"github.com/juscash/publicacoes-api/internal/infra/metrics"
	"github.com/juscash/publicacoes-api/internal/infra/middleware"
	"github.com/juscash/publicacoes-api/internal/ingest"
	"github.com/juscash/publicacoes-api/pkg/cache"
	"github.com/juscash/publicacoes-api/pkg/config"
	"github.com/juscash/publicacoes-api/pkg/security"
)

// App reúne todas as dependências da aplicação
type App struct {
	Config            *config.Config
	Logger            *zap.Logger
	DB                *database.Database
	Cache             cache.Cache
	Middleware        *middleware.Middleware
	AuthHandler       *http.AuthHandler
	PublicacaoHandler *http.PublicacaoHandler
	UsuarioHandler    *http.UsuarioHandler
	HealthChecker     *http.HealthChecker
	APIMetrics        *metrics.APIMetrics
	IngestWorker      *ingest.Worker
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        gormLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
		MigrationDir:    cfg.Database.MigrationDir,
		SkipMigrations:  cfg.Database.SkipMigrations,
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar banco de dados: %w", err)
	}

	apiMetrics := metrics.NewAPIMetrics()

	cacheProvider := newCacheProvider(cfg, apiMetrics, logger)

	// Repositórios
	publicacaoRepo := database.NewPublicacaoRepository(db.DB(), logger)
	usuarioRepo := database.NewUsuarioRepository(db.DB(), logger)

	// Gerenciador de chaves JWT
	keyManager, err := security.NewKeyManager(logger)
	if err != nil {
		return nil, err
	}

	// Serviços
	authService := auth.NewService(usuarioRepo, keyManager, auth.Config{
		TokenExpiration:  cfg.Auth.TokenExpiration,
		PasswordMinLen:   cfg.Auth.PasswordMinLen,
		ResetTokenExpiry: cfg.Auth.ResetTokenExpiry,
		FrontendURL:      cfg.Server.FrontendURL,
	}, logger)
	publicacaoService := publicacao.NewService(publicacaoRepo, cacheProvider, logger)
	usuarioService := usuario.NewService(usuarioRepo, logger)

	// Middleware com as métricas já criadas
	middlewares := middleware.NewMiddleware(cfg, keyManager, usuarioRepo, apiMetrics, logger)
	middlewares.SetMetricsMiddleware(middleware.NewMetricsMiddleware(apiMetrics, logger))

	// Coleta agendada do DJE
	ingestWorker := ingest.NewWorker(cfg.Ingest, publicacaoRepo, apiMetrics, logger)

	return &App{
		Config:            cfg,
		Logger:            logger,
		DB:                db,
		Cache:             cacheProvider,
		Middleware:        middlewares,
		AuthHandler:       http.NewAuthHandler(authService, logger),
		PublicacaoHandler: http.NewPublicacaoHandler(publicacaoService, logger),
		UsuarioHandler:    http.NewUsuarioHandler(usuarioService, logger),
		HealthChecker:     http.NewHealthChecker(db, cacheProvider, logger),
		APIMetrics:        apiMetrics,
		IngestWorker:      ingestWorker,
	}, nil
}

// gormLogLevel converte o nível textual da configuração para o nível do GORM
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// newCacheProvider seleciona o backend de cache conforme a configuração.
// Quando o Redis está indisponível, o cache em memória serve de reserva.
func newCacheProvider(cfg *config.Config, apiMetrics *metrics.APIMetrics, logger *zap.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		logger.Info("cache desabilitado na configuração")
		return &cache.NoOpCache{}
	}

	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(
			cfg.Cache.Redis.Address,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
			logger,
		)
		if err == nil {
			logger.Info("cache Redis inicializado",
				zap.String("address", cfg.Cache.Redis.Address))
			return redisCache
		}
		logger.Error("erro ao conectar ao Redis, usando cache em memória",
			zap.Error(err))
	}

	return cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute, apiMetrics, logger)
}

// RegisterRoutes registra todas as rotas da API no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.IgnoreFavicon())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	if a.Config.Tracing.Enabled {
		router.Use(a.Middleware.Tracing())
	}
	router.Use(a.Middleware.Metrics())

	// Endpoint de métricas para Prometheus
	if a.Config.Metrics.Enabled {
		router.GET(a.Config.Metrics.PrometheusPath, gin.WrapH(promhttp.Handler()))
		a.Logger.Info("endpoint de métricas Prometheus registrado",
			zap.String("path", a.Config.Metrics.PrometheusPath))
	}

	// Health checks
	router.GET("/health", a.HealthChecker.DetailedHealth)
	router.GET("/health/liveness", a.HealthChecker.LivenessCheck)
	router.GET("/health/readiness", a.HealthChecker.ReadinessCheck)

	api := router.Group("/api")

	// Rotas de autenticação
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", a.Middleware.LoginRateLimit(), a.AuthHandler.Login)
		authRoutes.POST("/registro", a.AuthHandler.Registro)
		authRoutes.POST("/logout", a.AuthHandler.Logout)
		authRoutes.GET("/me", a.Middleware.Authenticate, a.AuthHandler.Me)
		authRoutes.POST("/refresh-token", a.AuthHandler.RefreshToken)
		authRoutes.POST("/forgot-password", a.AuthHandler.ForgotPassword)
		authRoutes.POST("/reset-password", a.AuthHandler.ResetPassword)
	}

	// Rotas de publicações
	publicacoes := api.Group("/publicacoes")
	publicacoes.Use(a.Middleware.Authenticate)
	{
		publicacoes.GET("", a.PublicacaoHandler.List)
		publicacoes.GET("/estatisticas", a.PublicacaoHandler.Estatisticas)
		publicacoes.GET("/status/:status", a.PublicacaoHandler.ListByStatus)
		publicacoes.GET("/data/:inicio/:fim", a.PublicacaoHandler.ListByDateRange)
		publicacoes.GET("/processo/:numero", a.PublicacaoHandler.ListByProcesso)
		publicacoes.GET("/:id", a.PublicacaoHandler.GetByID)
		publicacoes.POST("", a.PublicacaoHandler.Create)
		publicacoes.PUT("/:id", a.PublicacaoHandler.Update)
		publicacoes.PUT("/:id/status", a.PublicacaoHandler.UpdateStatus)
		publicacoes.DELETE("/:id", a.Middleware.AdminOnly, a.PublicacaoHandler.Delete)
	}

	// Rotas de usuários
	usuarios := api.Group("/usuarios")
	usuarios.Use(a.Middleware.Authenticate)
	{
		usuarios.GET("", a.Middleware.AdminOnly, a.UsuarioHandler.List)
		usuarios.GET("/:id", a.Middleware.AdminOrSelf, a.UsuarioHandler.GetByID)
		usuarios.POST("", a.Middleware.AdminOnly, a.UsuarioHandler.Create)
		usuarios.PUT("/:id", a.Middleware.AdminOrSelf, a.UsuarioHandler.Update)
		usuarios.DELETE("/:id", a.Middleware.AdminOnly, a.UsuarioHandler.Delete)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "Endpoint não encontrado"})
	})
}

// Shutdown encerra os componentes da aplicação de forma ordenada
func (a *App) Shutdown(ctx context.Context) {
	a.IngestWorker.Stop(ctx)

	if err := a.DB.Close(); err != nil {
		a.Logger.Error("erro ao fechar conexão com o banco de dados", zap.Error(err))
	}
}
