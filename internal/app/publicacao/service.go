package publicacao

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/app/workflow"
	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/pkg/cache"
	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
)

const (
	estatisticasCacheKey = "estatisticas"
	estatisticasCacheTTL = 5 * time.Minute
)

// Service implementa as regras de negócio das publicações
type Service struct {
	repo   repository.PublicacaoRepository
	cache  cache.Cache
	logger *zap.Logger
}

// NewService cria um novo serviço de publicações
func NewService(repo repository.PublicacaoRepository, cacheProvider cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cacheProvider,
		logger: logger,
	}
}

// List retorna publicações paginadas com ordenação configurável
func (s *Service) List(ctx context.Context, page, limit int, sort, order string) ([]*model.Publicacao, model.Paginacao, error) {
	pubs, total, err := s.repo.List(ctx, page, limit, sort, order)
	if err != nil {
		return nil, model.Paginacao{}, apperrors.InternalServer("Erro ao buscar publicações", err)
	}
	return pubs, model.NewPaginacao(total, page, limit), nil
}

// ListByStatus retorna uma página do balde de status, com filtros opcionais
func (s *Service) ListByStatus(ctx context.Context, status model.Status, filtro model.PublicacaoFiltro, page, limit int) ([]*model.Publicacao, model.Paginacao, error) {
	if !model.IsValidStatus(status) {
		return nil, model.Paginacao{}, apperrors.BadRequest("Status inválido", nil)
	}

	pubs, total, err := s.repo.ListByStatus(ctx, status, filtro, page, limit)
	if err != nil {
		return nil, model.Paginacao{}, apperrors.InternalServer("Erro ao buscar publicações", err)
	}
	return pubs, model.NewPaginacao(total, page, limit), nil
}

// ListByDateRange retorna publicações disponibilizadas no intervalo informado
func (s *Service) ListByDateRange(ctx context.Context, inicio, fim time.Time, page, limit int) ([]*model.Publicacao, model.Paginacao, error) {
	if fim.Before(inicio) {
		return nil, model.Paginacao{}, apperrors.BadRequest("Data final anterior à data inicial", nil)
	}

	pubs, total, err := s.repo.ListByDateRange(ctx, inicio, fim, page, limit)
	if err != nil {
		return nil, model.Paginacao{}, apperrors.InternalServer("Erro ao buscar publicações", err)
	}
	return pubs, model.NewPaginacao(total, page, limit), nil
}

// ListByProcesso busca publicações pelo número de processo
func (s *Service) ListByProcesso(ctx context.Context, numero string) ([]*model.Publicacao, error) {
	if numero == "" {
		return nil, apperrors.BadRequest("Número do processo é obrigatório", nil)
	}

	pubs, err := s.repo.ListByProcesso(ctx, numero)
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao buscar publicações", err)
	}
	return pubs, nil
}

// GetByID obtém uma publicação pelo identificador
func (s *Service) GetByID(ctx context.Context, id uint) (*model.Publicacao, error) {
	pub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPublicacaoNotFound) {
			return nil, apperrors.NotFound("Publicação", err)
		}
		return nil, apperrors.InternalServer("Erro ao buscar publicação", err)
	}
	return pub, nil
}

// Create insere uma nova publicação. O status inicial é sempre "nova" e o réu
// recebe o valor padrão quando não informado.
func (s *Service) Create(ctx context.Context, pub *model.Publicacao, usuario string) (*model.Publicacao, error) {
	if pub.NumeroProcesso == "" {
		return nil, apperrors.BadRequest("Número do processo é obrigatório", nil)
	}

	if pub.DataDisponibilizacao == nil {
		now := time.Now()
		pub.DataDisponibilizacao = &now
	}

	exists, err := s.repo.Exists(ctx, pub.NumeroProcesso, *pub.DataDisponibilizacao)
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao verificar duplicidade", err)
	}
	if exists {
		return nil, apperrors.BadRequest("Publicação já cadastrada para este processo e data", repository.ErrPublicacaoExists)
	}

	pub.ID = 0
	pub.Status = model.StatusNova
	if pub.Reu == "" {
		pub.Reu = model.ReuPadrao
	}
	pub.UsuarioCriacao = usuarioOuSistema(usuario)
	pub.UsuarioAtualizacao = ""
	pub.DataAtualizacao = nil

	if err := s.repo.Create(ctx, pub); err != nil {
		return nil, apperrors.InternalServer("Erro ao criar publicação", err)
	}

	s.invalidateEstatisticas(ctx)
	return pub, nil
}

// Update atualiza os campos de uma publicação existente, preservando o status
func (s *Service) Update(ctx context.Context, id uint, alteracoes *model.Publicacao, usuario string) (*model.Publicacao, error) {
	atual, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	alteracoes.ID = atual.ID
	alteracoes.Status = atual.Status
	alteracoes.DataCriacao = atual.DataCriacao
	alteracoes.UsuarioCriacao = atual.UsuarioCriacao
	if alteracoes.Reu == "" {
		alteracoes.Reu = model.ReuPadrao
	}

	now := time.Now()
	alteracoes.DataAtualizacao = &now
	alteracoes.UsuarioAtualizacao = usuarioOuSistema(usuario)

	if err := s.repo.Update(ctx, alteracoes); err != nil {
		if errors.Is(err, repository.ErrPublicacaoNotFound) {
			return nil, apperrors.NotFound("Publicação", err)
		}
		return nil, apperrors.InternalServer("Erro ao atualizar publicação", err)
	}

	s.invalidateEstatisticas(ctx)
	return alteracoes, nil
}

// UpdateStatus movimenta a publicação no fluxo de trabalho, aplicando a
// lista de movimentações permitidas do quadro.
func (s *Service) UpdateStatus(ctx context.Context, id uint, novoStatus model.Status, usuario string) (*model.Publicacao, error) {
	if !model.IsValidStatus(novoStatus) {
		return nil, apperrors.BadRequest("Status inválido", nil)
	}

	pub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.Validate(pub.Status, novoStatus); err != nil {
		var transErr *workflow.TransitionError
		if errors.As(err, &transErr) {
			return nil, apperrors.UnprocessableEntity(transErr.Message, err)
		}
		return nil, apperrors.UnprocessableEntity(workflow.MensagemPadrao, err)
	}

	now := time.Now()
	pub.Status = novoStatus
	pub.DataAtualizacao = &now
	pub.UsuarioAtualizacao = usuarioOuSistema(usuario)

	if err := s.repo.Update(ctx, pub); err != nil {
		if errors.Is(err, repository.ErrPublicacaoNotFound) {
			return nil, apperrors.NotFound("Publicação", err)
		}
		return nil, apperrors.InternalServer("Erro ao atualizar status", err)
	}

	s.invalidateEstatisticas(ctx)
	return pub, nil
}

// Delete remove uma publicação
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPublicacaoNotFound) {
			return apperrors.NotFound("Publicação", err)
		}
		return apperrors.InternalServer("Erro ao excluir publicação", err)
	}

	s.invalidateEstatisticas(ctx)
	return nil
}

// GetEstatisticas agrega os totais do painel, com cache de curta duração
func (s *Service) GetEstatisticas(ctx context.Context) (*model.Estatisticas, error) {
	if s.cache != nil {
		var cached model.Estatisticas
		if found, err := s.cache.Get(ctx, estatisticasCacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	porStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao calcular estatísticas", err)
	}

	var total int64
	for _, count := range porStatus {
		total += count
	}

	ultimosMes, err := s.repo.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao calcular estatísticas", err)
	}

	stats := &model.Estatisticas{
		TotalGeral:     total,
		TotalPorStatus: porStatus,
		UltimosMes:     ultimosMes,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, estatisticasCacheKey, stats, estatisticasCacheTTL); err != nil {
			s.logger.Warn("falha ao armazenar estatísticas em cache", zap.Error(err))
		}
	}

	return stats, nil
}

// invalidateEstatisticas descarta o cache de estatísticas após mutações
func (s *Service) invalidateEstatisticas(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, estatisticasCacheKey); err != nil {
		s.logger.Warn("falha ao invalidar cache de estatísticas", zap.Error(err))
	}
}

func usuarioOuSistema(usuario string) string {
	if usuario == "" {
		return "Sistema"
	}
	return usuario
}
