package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/juscash/publicacoes-api/internal/app"
	"github.com/juscash/publicacoes-api/pkg/config"
	"github.com/juscash/publicacoes-api/pkg/logging"
	"github.com/juscash/publicacoes-api/pkg/telemetry"
)

// setupServer configura o servidor HTTP ou HTTPS conforme o ambiente
func setupServer(router *gin.Engine, cfg *config.Config, logger *zap.Logger) *http.Server {
	env := os.Getenv("ENVIRONMENT")

	// Modo de desenvolvimento ou TLS desabilitado (HTTP)
	if env == "development" || !cfg.Server.TLS {
		logger.Info("Iniciando em modo HTTP",
			zap.Bool("tls_disabled", !cfg.Server.TLS),
			zap.String("env", env),
			zap.Int("port", cfg.Server.Port))

		return &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		}
	}

	// Certificados fornecidos pelo usuário
	hasCertificates := cfg.Server.CertFile != "" && cfg.Server.KeyFile != ""
	if hasCertificates {
		if _, err := os.Stat(cfg.Server.CertFile); os.IsNotExist(err) {
			logger.Error("Arquivo de certificado não encontrado",
				zap.String("certFile", cfg.Server.CertFile))
			hasCertificates = false
		}
		if _, err := os.Stat(cfg.Server.KeyFile); os.IsNotExist(err) {
			logger.Error("Arquivo de chave privada não encontrado",
				zap.String("keyFile", cfg.Server.KeyFile))
			hasCertificates = false
		}
	}

	if hasCertificates {
		logger.Info("Usando certificados TLS fornecidos pelo usuário",
			zap.String("certFile", cfg.Server.CertFile),
			zap.String("keyFile", cfg.Server.KeyFile))

		server := &http.Server{
			Addr:    ":443",
			Handler: router,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS13,
			},
		}

		go startHTTPRedirector(logger)
		return server
	}

	// Sem certificados próprios, tentar Let's Encrypt
	var domains []string
	if serverDomains := os.Getenv("SERVER_DOMAINS"); serverDomains != "" {
		domains = strings.Split(serverDomains, ",")
	} else {
		domains = cfg.Server.Domains
	}

	validDomains := make([]string, 0)
	for _, domain := range domains {
		if domain != "" && domain != "localhost" && domain != "127.0.0.1" {
			validDomains = append(validDomains, domain)
		}
	}

	if len(validDomains) == 0 {
		logger.Warn("Nenhum domínio válido configurado para Let's Encrypt. Usando HTTP.",
			zap.Strings("domains", domains))
		return &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		}
	}

	logger.Info("Inicializando Let's Encrypt para domínios",
		zap.Strings("domains", validDomains))

	certManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(validDomains...),
		Cache:      autocert.DirCache("./certs"),
		Email:      os.Getenv("LETSENCRYPT_EMAIL"),
	}

	server := &http.Server{
		Addr:    ":443",
		Handler: router,
		TLSConfig: &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS13,
		},
	}

	// Servidor HTTP para desafios Let's Encrypt e redirecionamento
	go func() {
		httpServer := &http.Server{
			Addr:    ":80",
			Handler: certManager.HTTPHandler(http.HandlerFunc(redirectHTTPS)),
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Erro no servidor HTTP para Let's Encrypt", zap.Error(err))
		}
	}()

	return server
}

// startHTTPRedirector inicia um servidor HTTP simples para redirecionar para HTTPS
func startHTTPRedirector(logger *zap.Logger) {
	httpServer := &http.Server{
		Addr:    ":80",
		Handler: http.HandlerFunc(redirectHTTPS),
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Erro no servidor HTTP para redirecionamento", zap.Error(err))
	}
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.Path
	if len(r.URL.RawQuery) > 0 {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func main() {
	// Carregar variáveis do arquivo .env, se existir
	_ = godotenv.Load()

	logger, err := logging.NewLogger()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logger.Fatal("Falha ao carregar configuração", zap.Error(err))
	}

	// Inicializar o tracer se estiver habilitado
	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(
			context.Background(),
			cfg.Tracing.ServiceName,
			cfg.Tracing.Endpoint,
			logger,
		)
		if err != nil {
			logger.Error("Falha ao inicializar tracer", zap.Error(err))
		} else {
			logger.Info("Tracer inicializado com sucesso",
				zap.String("endpoint", cfg.Tracing.Endpoint))
			defer tp.Shutdown(context.Background())
		}
	}

	application, err := app.NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("Falha ao inicializar aplicação", zap.Error(err))
	}

	if os.Getenv("ENVIRONMENT") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	application.RegisterRoutes(router)

	// Iniciar a coleta agendada do DJE
	if err := application.IngestWorker.Start(); err != nil {
		logger.Error("Falha ao iniciar coleta do DJE", zap.Error(err))
	}

	server := setupServer(router, cfg, logger)

	go func() {
		var err error
		if server.TLSConfig != nil {
			logger.Info("Iniciando servidor HTTPS", zap.String("addr", server.Addr))
			if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
				err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			} else {
				err = server.ListenAndServeTLS("", "")
			}
		} else {
			logger.Info("Iniciando servidor HTTP", zap.String("addr", server.Addr))
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	// Esperar por sinal de interrupção para shutdown gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Erro ao encerrar servidor", zap.Error(err))
	}

	application.Shutdown(ctx)

	logger.Info("Servidor encerrado com sucesso")
}
