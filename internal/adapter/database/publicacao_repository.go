package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
)

// Colunas aceitas para ordenação da listagem geral
var publicacaoSortColumns = map[string]string{
	"dataDisponibilizacao": "data_disponibilizacao",
	"dataCriacao":          "data_criacao",
	"numeroProcesso":       "numero_processo",
	"status":               "status",
	"autor":                "autor",
}

// PublicacaoRepository implementa repository.PublicacaoRepository
type PublicacaoRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

// NewPublicacaoRepository cria um novo repositório de publicações
func NewPublicacaoRepository(db *gorm.DB, logger *zap.Logger) repository.PublicacaoRepository {
	tracer := otel.GetTracerProvider().Tracer("publicacoes-api.repository.publicacao")

	return &PublicacaoRepository{
		db:     db,
		logger: logger,
		tracer: tracer,
	}
}

// List retorna publicações paginadas com ordenação configurável
func (r *PublicacaoRepository) List(ctx context.Context, page, limit int, sort, order string) ([]*model.Publicacao, int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.List",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
			attribute.Int("page", page),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	column, ok := publicacaoSortColumns[sort]
	if !ok {
		column = "data_disponibilizacao"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}

	query := r.db.WithContext(ctx).Model(&model.Publicacao{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("falha ao contar publicações", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao contar publicações: %w", err)
	}

	var pubs []*model.Publicacao
	if err := query.
		Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pubs).Error; err != nil {
		r.logger.Error("falha ao buscar publicações", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao buscar publicações: %w", err)
	}

	span.SetAttributes(attribute.Int64("publicacoes.total", total))
	span.SetStatus(codes.Ok, "")
	return pubs, total, nil
}

// ListByStatus retorna uma página do balde de status, com filtros opcionais
func (r *PublicacaoRepository) ListByStatus(ctx context.Context, status model.Status, filtro model.PublicacaoFiltro, page, limit int) ([]*model.Publicacao, int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.ListByStatus",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
			attribute.String("publicacao.status", string(status)),
			attribute.Int("page", page),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	query := r.db.WithContext(ctx).Model(&model.Publicacao{}).Where("status = ?", status)
	query = applyFiltro(query, filtro)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("falha ao contar publicações por status",
			zap.String("status", string(status)),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao contar publicações: %w", err)
	}

	var pubs []*model.Publicacao
	if err := query.
		Order("data_criacao DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pubs).Error; err != nil {
		r.logger.Error("falha ao buscar publicações por status",
			zap.String("status", string(status)),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao buscar publicações: %w", err)
	}

	span.SetAttributes(attribute.Int64("publicacoes.total", total))
	span.SetStatus(codes.Ok, "")
	return pubs, total, nil
}

// applyFiltro aplica pesquisa textual e intervalo de datas à consulta
func applyFiltro(query *gorm.DB, filtro model.PublicacaoFiltro) *gorm.DB {
	if texto := strings.TrimSpace(filtro.TextoPesquisa); texto != "" {
		// LOWER + LIKE funciona de forma idêntica em sqlite, mysql e postgres
		pattern := "%" + strings.ToLower(texto) + "%"
		query = query.Where(
			"LOWER(numero_processo) LIKE ? OR LOWER(autor) LIKE ? OR LOWER(reu) LIKE ? OR LOWER(advogado) LIKE ? OR LOWER(conteudo_completo) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	if filtro.DataInicio != nil {
		query = query.Where("data_disponibilizacao >= ?", *filtro.DataInicio)
	}

	if filtro.DataFim != nil {
		query = query.Where("data_disponibilizacao <= ?", endOfDay(*filtro.DataFim))
	}

	return query
}

// endOfDay avança a data para o último instante do dia, tornando o limite inclusivo
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// ListByDateRange retorna publicações cuja data de disponibilização está no intervalo
func (r *PublicacaoRepository) ListByDateRange(ctx context.Context, inicio, fim time.Time, page, limit int) ([]*model.Publicacao, int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.ListByDateRange",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
		),
	)
	defer span.End()

	query := r.db.WithContext(ctx).Model(&model.Publicacao{}).
		Where("data_disponibilizacao >= ? AND data_disponibilizacao <= ?", inicio, endOfDay(fim))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("falha ao contar publicações por intervalo", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao contar publicações: %w", err)
	}

	var pubs []*model.Publicacao
	if err := query.
		Order("data_disponibilizacao DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pubs).Error; err != nil {
		r.logger.Error("falha ao buscar publicações por intervalo", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, 0, fmt.Errorf("falha ao buscar publicações: %w", err)
	}

	span.SetAttributes(attribute.Int64("publicacoes.total", total))
	span.SetStatus(codes.Ok, "")
	return pubs, total, nil
}

// ListByProcesso busca publicações pelo número de processo (substring)
func (r *PublicacaoRepository) ListByProcesso(ctx context.Context, numero string) ([]*model.Publicacao, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.ListByProcesso",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
		),
	)
	defer span.End()

	pattern := "%" + strings.ToLower(strings.TrimSpace(numero)) + "%"

	var pubs []*model.Publicacao
	if err := r.db.WithContext(ctx).
		Where("LOWER(numero_processo) LIKE ?", pattern).
		Order("data_criacao DESC").
		Find(&pubs).Error; err != nil {
		r.logger.Error("falha ao buscar publicações por processo",
			zap.String("numeroProcesso", numero),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar publicações: %w", err)
	}

	span.SetAttributes(attribute.Int("publicacoes.count", len(pubs)))
	span.SetStatus(codes.Ok, "")
	return pubs, nil
}

// GetByID obtém uma publicação pelo identificador
func (r *PublicacaoRepository) GetByID(ctx context.Context, id uint) (*model.Publicacao, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.GetByID",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
			attribute.Int("publicacao.id", int(id)),
		),
	)
	defer span.End()

	var pub model.Publicacao
	if err := r.db.WithContext(ctx).First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "publicacao not found")
			return nil, repository.ErrPublicacaoNotFound
		}
		r.logger.Error("falha ao buscar publicação",
			zap.Uint("id", id),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar publicação: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return &pub, nil
}

// Create insere uma nova publicação
func (r *PublicacaoRepository) Create(ctx context.Context, pub *model.Publicacao) error {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.Create",
		trace.WithAttributes(
			attribute.String("db.operation", "insert"),
			attribute.String("db.table", "publicacoes"),
			attribute.String("publicacao.numero_processo", pub.NumeroProcesso),
		),
	)
	defer span.End()

	if err := r.db.WithContext(ctx).Create(pub).Error; err != nil {
		r.logger.Error("falha ao inserir publicação",
			zap.String("numeroProcesso", pub.NumeroProcesso),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao inserir publicação: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update persiste alterações em uma publicação existente
func (r *PublicacaoRepository) Update(ctx context.Context, pub *model.Publicacao) error {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.Update",
		trace.WithAttributes(
			attribute.String("db.operation", "update"),
			attribute.String("db.table", "publicacoes"),
			attribute.Int("publicacao.id", int(pub.ID)),
		),
	)
	defer span.End()

	result := r.db.WithContext(ctx).Model(&model.Publicacao{}).
		Where("id = ?", pub.ID).
		Select("*").
		Omit("id", "data_criacao", "usuario_criacao").
		Updates(pub)
	if result.Error != nil {
		r.logger.Error("falha ao atualizar publicação",
			zap.Uint("id", pub.ID),
			zap.Error(result.Error))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao atualizar publicação: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))

	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrPublicacaoNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete remove uma publicação pelo identificador
func (r *PublicacaoRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.Delete",
		trace.WithAttributes(
			attribute.String("db.operation", "delete"),
			attribute.String("db.table", "publicacoes"),
			attribute.Int("publicacao.id", int(id)),
		),
	)
	defer span.End()

	result := r.db.WithContext(ctx).Delete(&model.Publicacao{}, id)
	if result.Error != nil {
		r.logger.Error("falha ao excluir publicação",
			zap.Uint("id", id),
			zap.Error(result.Error))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao excluir publicação: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))

	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrPublicacaoNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Exists verifica se já há publicação com o mesmo processo e data de disponibilização
func (r *PublicacaoRepository) Exists(ctx context.Context, numeroProcesso string, dataDisponibilizacao time.Time) (bool, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.Exists",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
			attribute.String("publicacao.numero_processo", numeroProcesso),
		),
	)
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Publicacao{}).
		Where("numero_processo = ? AND data_disponibilizacao = ?", numeroProcesso, dataDisponibilizacao).
		Count(&count).Error; err != nil {
		r.logger.Error("falha ao verificar duplicidade de publicação",
			zap.String("numeroProcesso", numeroProcesso),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return false, fmt.Errorf("falha ao verificar duplicidade: %w", err)
	}

	span.SetAttributes(attribute.Bool("publicacao.exists", count > 0))
	span.SetStatus(codes.Ok, "")
	return count > 0, nil
}

// CountByStatus retorna o total de publicações por status
func (r *PublicacaoRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.CountByStatus",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
		),
	)
	defer span.End()

	type statusCount struct {
		Status model.Status
		Total  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Publicacao{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		r.logger.Error("falha ao contar publicações por status", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao contar publicações por status: %w", err)
	}

	counts := make(map[model.Status]int64, len(model.AllStatuses()))
	for _, status := range model.AllStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	span.SetStatus(codes.Ok, "")
	return counts, nil
}

// CountCreatedSince retorna o total de publicações criadas a partir da data informada
func (r *PublicacaoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"PublicacaoRepository.CountCreatedSince",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "publicacoes"),
		),
	)
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Publicacao{}).
		Where("data_criacao >= ?", since).
		Count(&count).Error; err != nil {
		r.logger.Error("falha ao contar publicações recentes", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return 0, fmt.Errorf("falha ao contar publicações recentes: %w", err)
	}

	span.SetAttributes(attribute.Int64("publicacoes.count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}
