package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/infra/metrics"
	"github.com/juscash/publicacoes-api/pkg/config"
	"github.com/juscash/publicacoes-api/pkg/resilience"
)

// Worker executa a coleta agendada do DJE. Em cada execução o caderno do dia
// é baixado, recortado em publicações e gravado no repositório, ignorando
// processos já cadastrados para a mesma data.
type Worker struct {
	cfg     config.IngestConfig
	repo    repository.PublicacaoRepository
	parser  *Parser
	breaker *resilience.CircuitBreaker
	client  *http.Client
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewWorker cria um novo worker de coleta
func NewWorker(cfg config.IngestConfig, repo repository.PublicacaoRepository, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Worker {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:            "dje-fetch",
		MaxRequestsFail: cfg.MaxFails,
		Interval:        time.Minute,
		Timeout:         5 * time.Minute,
	}, logger, apiMetrics)

	return &Worker{
		cfg:     cfg,
		repo:    repo,
		parser:  NewParser(),
		breaker: breaker,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start agenda a coleta conforme a expressão cron configurada
func (w *Worker) Start() error {
	if !w.cfg.Enabled {
		w.logger.Info("coleta do DJE desabilitada")
		return nil
	}

	_, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		inseridas, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("coleta do DJE falhou", zap.Error(err))
			return
		}
		w.logger.Info("coleta do DJE concluída", zap.Int("inseridas", inseridas))
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar coleta do DJE: %w", err)
	}

	w.cron.Start()
	w.logger.Info("coleta do DJE agendada",
		zap.String("schedule", w.cfg.Schedule),
		zap.String("url", w.cfg.SearchURL))
	return nil
}

// Stop interrompe o agendador e aguarda a execução em andamento
func (w *Worker) Stop(ctx context.Context) {
	done := w.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("parada da coleta do DJE expirou antes de concluir")
	}
}

// RunOnce executa uma rodada completa de coleta e retorna quantas publicações
// novas foram gravadas
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	texto, err := w.fetch(ctx)
	if err != nil {
		return 0, err
	}

	hoje := time.Now().Truncate(24 * time.Hour)
	publicacoes := w.parser.Parse(texto, hoje)
	w.logger.Info("caderno do DJE processado",
		zap.Int("publicacoes_encontradas", len(publicacoes)))

	return w.persistir(ctx, publicacoes)
}

// fetch baixa o caderno do dia protegido por circuit breaker. Falhas seguidas
// abrem o circuito e suspendem as tentativas por alguns minutos.
func (w *Worker) fetch(ctx context.Context) (string, error) {
	result, err := w.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		consulta := url.Values{}
		consulta.Set("dadosConsulta.pesquisaLivre", w.cfg.SearchTerm)
		consulta.Set("dadosConsulta.dtInicio", time.Now().Format("02/01/2006"))
		consulta.Set("dadosConsulta.dtFim", time.Now().Format("02/01/2006"))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.SearchURL+"?"+consulta.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := w.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("consulta ao DJE retornou status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return string(body), nil
	})
	if err != nil {
		return "", fmt.Errorf("erro ao baixar caderno do DJE: %w", err)
	}

	return result.(string), nil
}

// persistir grava as publicações que ainda não existem para o par
// processo + data de disponibilização. Erros individuais são registrados sem
// interromper o restante do lote.
func (w *Worker) persistir(ctx context.Context, publicacoes []*model.Publicacao) (int, error) {
	inseridas := 0
	for _, pub := range publicacoes {
		existe, err := w.repo.Exists(ctx, pub.NumeroProcesso, *pub.DataDisponibilizacao)
		if err != nil {
			w.logger.Error("erro ao verificar duplicidade de publicação",
				zap.String("numero_processo", pub.NumeroProcesso),
				zap.Error(err))
			continue
		}
		if existe {
			w.logger.Debug("publicação já cadastrada, ignorando",
				zap.String("numero_processo", pub.NumeroProcesso))
			continue
		}

		if err := w.repo.Create(ctx, pub); err != nil {
			w.logger.Error("erro ao gravar publicação coletada",
				zap.String("numero_processo", pub.NumeroProcesso),
				zap.Error(err))
			continue
		}
		inseridas++
	}
	return inseridas, nil
}
