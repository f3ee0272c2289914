package repository

import (
	"context"
	"errors"
	"time"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

var (
	ErrPublicacaoNotFound = errors.New("publicação não encontrada")
	ErrPublicacaoExists   = errors.New("publicação já cadastrada")
)

// PublicacaoRepository define a interface para armazenamento de publicações
type PublicacaoRepository interface {
	// List retorna publicações paginadas com ordenação configurável
	List(ctx context.Context, page, limit int, sort, order string) ([]*model.Publicacao, int64, error)

	// ListByStatus retorna uma página do balde de status, com filtros opcionais
	ListByStatus(ctx context.Context, status model.Status, filtro model.PublicacaoFiltro, page, limit int) ([]*model.Publicacao, int64, error)

	// ListByDateRange retorna publicações cuja data de disponibilização está no intervalo
	ListByDateRange(ctx context.Context, inicio, fim time.Time, page, limit int) ([]*model.Publicacao, int64, error)

	// ListByProcesso busca publicações pelo número de processo (substring)
	ListByProcesso(ctx context.Context, numero string) ([]*model.Publicacao, error)

	// GetByID obtém uma publicação pelo identificador
	GetByID(ctx context.Context, id uint) (*model.Publicacao, error)

	// Create insere uma nova publicação
	Create(ctx context.Context, pub *model.Publicacao) error

	// Update persiste alterações em uma publicação existente
	Update(ctx context.Context, pub *model.Publicacao) error

	// Delete remove uma publicação pelo identificador
	Delete(ctx context.Context, id uint) error

	// Exists verifica se já há publicação com o mesmo processo e data de disponibilização
	Exists(ctx context.Context, numeroProcesso string, dataDisponibilizacao time.Time) (bool, error)

	// CountByStatus retorna o total de publicações por status
	CountByStatus(ctx context.Context) (map[model.Status]int64, error)

	// CountCreatedSince retorna o total de publicações criadas a partir da data informada
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
