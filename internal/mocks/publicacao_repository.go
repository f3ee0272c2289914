package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

// MockPublicacaoRepository é um mock para a interface PublicacaoRepository
type MockPublicacaoRepository struct {
	mock.Mock
}

func (m *MockPublicacaoRepository) List(ctx context.Context, page, limit int, sort, order string) ([]*model.Publicacao, int64, error) {
	args := m.Called(ctx, page, limit, sort, order)

	var pubs []*model.Publicacao
	if args.Get(0) != nil {
		pubs = args.Get(0).([]*model.Publicacao)
	}

	return pubs, args.Get(1).(int64), args.Error(2)
}

func (m *MockPublicacaoRepository) ListByStatus(ctx context.Context, status model.Status, filtro model.PublicacaoFiltro, page, limit int) ([]*model.Publicacao, int64, error) {
	args := m.Called(ctx, status, filtro, page, limit)

	var pubs []*model.Publicacao
	if args.Get(0) != nil {
		pubs = args.Get(0).([]*model.Publicacao)
	}

	return pubs, args.Get(1).(int64), args.Error(2)
}

func (m *MockPublicacaoRepository) ListByDateRange(ctx context.Context, inicio, fim time.Time, page, limit int) ([]*model.Publicacao, int64, error) {
	args := m.Called(ctx, inicio, fim, page, limit)

	var pubs []*model.Publicacao
	if args.Get(0) != nil {
		pubs = args.Get(0).([]*model.Publicacao)
	}

	return pubs, args.Get(1).(int64), args.Error(2)
}

func (m *MockPublicacaoRepository) ListByProcesso(ctx context.Context, numeroProcesso string) ([]*model.Publicacao, error) {
	args := m.Called(ctx, numeroProcesso)

	var pubs []*model.Publicacao
	if args.Get(0) != nil {
		pubs = args.Get(0).([]*model.Publicacao)
	}

	return pubs, args.Error(1)
}

func (m *MockPublicacaoRepository) GetByID(ctx context.Context, id uint) (*model.Publicacao, error) {
	args := m.Called(ctx, id)

	var pub *model.Publicacao
	if args.Get(0) != nil {
		pub = args.Get(0).(*model.Publicacao)
	}

	return pub, args.Error(1)
}

func (m *MockPublicacaoRepository) Create(ctx context.Context, publicacao *model.Publicacao) error {
	args := m.Called(ctx, publicacao)
	return args.Error(0)
}

func (m *MockPublicacaoRepository) Update(ctx context.Context, publicacao *model.Publicacao) error {
	args := m.Called(ctx, publicacao)
	return args.Error(0)
}

func (m *MockPublicacaoRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPublicacaoRepository) Exists(ctx context.Context, numeroProcesso string, dataDisponibilizacao time.Time) (bool, error) {
	args := m.Called(ctx, numeroProcesso, dataDisponibilizacao)
	return args.Bool(0), args.Error(1)
}

func (m *MockPublicacaoRepository) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	args := m.Called(ctx)

	var counts map[model.Status]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[model.Status]int64)
	}

	return counts, args.Error(1)
}

func (m *MockPublicacaoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
