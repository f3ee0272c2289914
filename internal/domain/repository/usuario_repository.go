package repository

import (
	"context"
	"errors"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

var (
	ErrUsuarioNotFound = errors.New("usuário não encontrado")
	ErrEmailEmUso      = errors.New("e-mail já cadastrado")
	ErrSenhaInvalida   = errors.New("senha inválida")
)

// UsuarioRepository define a interface para armazenamento de usuários
type UsuarioRepository interface {
	// GetByEmail obtém a entidade completa (com hash de senha) pelo e-mail
	GetByEmail(ctx context.Context, email string) (*model.UsuarioEntity, error)

	// GetByID obtém a entidade completa pelo identificador
	GetByID(ctx context.Context, id uint) (*model.UsuarioEntity, error)

	// List retorna todos os usuários ordenados por nome
	List(ctx context.Context) ([]*model.UsuarioEntity, error)

	// Create insere um novo usuário (a senha já deve estar em hash)
	Create(ctx context.Context, usuario *model.UsuarioEntity) error

	// Update persiste alterações em um usuário existente
	Update(ctx context.Context, usuario *model.UsuarioEntity) error

	// Delete remove um usuário pelo identificador
	Delete(ctx context.Context, id uint) error

	// ListWithActiveResetToken retorna usuários com token de redefinição ainda válido
	ListWithActiveResetToken(ctx context.Context) ([]*model.UsuarioEntity, error)
}
