package usuario

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
)

// Service implementa a administração de usuários
type Service struct {
	repo   repository.UsuarioRepository
	logger *zap.Logger
}

// NewService cria um novo serviço de usuários
func NewService(repo repository.UsuarioRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput agrupa os dados de criação de um usuário
type CreateInput struct {
	Nome   string
	Email  string
	Senha  string
	Perfil string
	Active *bool
}

// UpdateInput agrupa os dados de atualização de um usuário.
// A senha só é trocada quando informada.
type UpdateInput struct {
	Nome   string
	Email  string
	Senha  string
	Perfil string
	Active *bool
}

// List retorna todos os usuários ordenados por nome, sem as senhas
func (s *Service) List(ctx context.Context) ([]*model.Usuario, error) {
	entities, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao buscar usuários.", err)
	}

	usuarios := make([]*model.Usuario, 0, len(entities))
	for _, entity := range entities {
		usuarios = append(usuarios, entity.ToUsuario())
	}
	return usuarios, nil
}

// GetByID obtém um usuário pelo identificador
func (s *Service) GetByID(ctx context.Context, id uint) (*model.Usuario, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return nil, apperrors.NotFound("Usuário", err)
		}
		return nil, apperrors.InternalServer("Erro ao buscar usuário.", err)
	}
	return entity.ToUsuario(), nil
}

// Create insere um novo usuário com os dados informados pelo administrador
func (s *Service) Create(ctx context.Context, input CreateInput, auditUser string) (*model.Usuario, error) {
	if input.Nome == "" || input.Email == "" || input.Senha == "" {
		return nil, apperrors.BadRequest("Nome, e-mail e senha são obrigatórios.", nil)
	}

	perfil := input.Perfil
	if perfil == "" {
		perfil = model.PerfilUsuario
	}

	ativo := true
	if input.Active != nil {
		ativo = *input.Active
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalServer("Erro ao criar usuário.", err)
	}

	entity := &model.UsuarioEntity{
		Nome:               strings.TrimSpace(input.Nome),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Senha:              string(hash),
		Perfil:             perfil,
		Ativo:              ativo,
		UsuarioCriacao:     auditUserOuSistema(auditUser),
		UsuarioAtualizacao: auditUserOuSistema(auditUser),
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, repository.ErrEmailEmUso) {
			return nil, apperrors.BadRequest("E-mail já cadastrado.", err)
		}
		return nil, apperrors.InternalServer("Erro ao criar usuário.", err)
	}

	return entity.ToUsuario(), nil
}

// Update altera os dados de um usuário existente
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput, auditUser string) (*model.Usuario, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return nil, apperrors.NotFound("Usuário", err)
		}
		return nil, apperrors.InternalServer("Erro ao buscar usuário.", err)
	}

	if input.Nome != "" {
		entity.Nome = strings.TrimSpace(input.Nome)
	}
	if input.Email != "" {
		entity.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Perfil != "" {
		entity.Perfil = input.Perfil
	}
	if input.Active != nil {
		entity.Ativo = *input.Active
	}
	if input.Senha != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Senha), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.InternalServer("Erro ao atualizar usuário.", err)
		}
		entity.Senha = string(hash)
	}

	now := time.Now()
	entity.DataAtualizacao = &now
	entity.UsuarioAtualizacao = auditUserOuSistema(auditUser)

	if err := s.repo.Update(ctx, entity); err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return nil, apperrors.NotFound("Usuário", err)
		}
		return nil, apperrors.InternalServer("Erro ao atualizar usuário.", err)
	}

	return entity.ToUsuario(), nil
}

// Delete remove um usuário
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return apperrors.NotFound("Usuário", err)
		}
		return apperrors.InternalServer("Erro ao excluir usuário.", err)
	}
	return nil
}

func auditUserOuSistema(nome string) string {
	if nome == "" {
		return "Sistema"
	}
	return nome
}
