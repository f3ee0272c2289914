package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

// MockUsuarioRepository é um mock para a interface UsuarioRepository
type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) GetByEmail(ctx context.Context, email string) (*model.UsuarioEntity, error) {
	args := m.Called(ctx, email)

	var usuario *model.UsuarioEntity
	if args.Get(0) != nil {
		usuario = args.Get(0).(*model.UsuarioEntity)
	}

	return usuario, args.Error(1)
}

func (m *MockUsuarioRepository) GetByID(ctx context.Context, id uint) (*model.UsuarioEntity, error) {
	args := m.Called(ctx, id)

	var usuario *model.UsuarioEntity
	if args.Get(0) != nil {
		usuario = args.Get(0).(*model.UsuarioEntity)
	}

	return usuario, args.Error(1)
}

func (m *MockUsuarioRepository) List(ctx context.Context) ([]*model.UsuarioEntity, error) {
	args := m.Called(ctx)

	var usuarios []*model.UsuarioEntity
	if args.Get(0) != nil {
		usuarios = args.Get(0).([]*model.UsuarioEntity)
	}

	return usuarios, args.Error(1)
}

func (m *MockUsuarioRepository) Create(ctx context.Context, usuario *model.UsuarioEntity) error {
	args := m.Called(ctx, usuario)
	return args.Error(0)
}

func (m *MockUsuarioRepository) Update(ctx context.Context, usuario *model.UsuarioEntity) error {
	args := m.Called(ctx, usuario)
	return args.Error(0)
}

func (m *MockUsuarioRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsuarioRepository) ListWithActiveResetToken(ctx context.Context) ([]*model.UsuarioEntity, error) {
	args := m.Called(ctx)

	var usuarios []*model.UsuarioEntity
	if args.Get(0) != nil {
		usuarios = args.Get(0).([]*model.UsuarioEntity)
	}

	return usuarios, args.Error(1)
}
