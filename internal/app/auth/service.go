package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
	"github.com/juscash/publicacoes-api/pkg/security"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config parametriza o serviço de autenticação
type Config struct {
	TokenExpiration  time.Duration
	PasswordMinLen   int
	ResetTokenExpiry time.Duration
	FrontendURL      string
}

// Service implementa login, registro e recuperação de senha
type Service struct {
	repo       repository.UsuarioRepository
	keyManager *security.KeyManager
	config     Config
	logger     *zap.Logger
}

// NewService cria um novo serviço de autenticação
func NewService(repo repository.UsuarioRepository, keyManager *security.KeyManager, config Config, logger *zap.Logger) *Service {
	if config.TokenExpiration <= 0 {
		config.TokenExpiration = 24 * time.Hour
	}
	if config.PasswordMinLen <= 0 {
		config.PasswordMinLen = 6
	}
	if config.ResetTokenExpiry <= 0 {
		config.ResetTokenExpiry = time.Hour
	}
	if config.FrontendURL == "" {
		config.FrontendURL = "http://localhost:3000"
	}

	return &Service{
		repo:       repo,
		keyManager: keyManager,
		config:     config,
		logger:     logger,
	}
}

// Login valida as credenciais e emite um token de acesso
func (s *Service) Login(ctx context.Context, email, senha string) (string, *model.Usuario, error) {
	if email == "" || senha == "" {
		return "", nil, apperrors.BadRequest("Email e senha são obrigatórios", nil)
	}

	if !emailRegex.MatchString(email) {
		return "", nil, apperrors.BadRequest("Formato de email inválido", nil)
	}

	entity, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return "", nil, apperrors.Unauthorized("Email não cadastrado. Verifique o email ou crie uma nova conta.", err)
		}
		return "", nil, apperrors.InternalServer("Erro interno do servidor. Tente novamente em alguns minutos.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(entity.Senha), []byte(senha)); err != nil {
		return "", nil, apperrors.Unauthorized("Senha incorreta. Verifique sua senha e tente novamente.", err)
	}

	if !entity.Ativo {
		return "", nil, apperrors.Forbidden("Sua conta está desativada. Entre em contato com o suporte.", nil)
	}

	token, err := s.keyManager.GenerateToken(entity.ID, entity.Perfil, s.config.TokenExpiration)
	if err != nil {
		return "", nil, apperrors.InternalServer("Erro interno do servidor. Tente novamente em alguns minutos.", err)
	}

	now := time.Now()
	entity.UltimoLogin = &now
	if err := s.repo.Update(ctx, entity); err != nil {
		// O login não falha por causa do carimbo de último acesso
		s.logger.Warn("falha ao registrar último login",
			zap.Uint("usuario_id", entity.ID),
			zap.Error(err))
	}

	return token, entity.ToUsuario(), nil
}

// Registro cria uma conta com perfil "usuario" e emite um token de acesso
func (s *Service) Registro(ctx context.Context, nome, email, senha string) (string, *model.Usuario, error) {
	if nome == "" || email == "" || senha == "" {
		return "", nil, apperrors.BadRequest("Nome, email e senha são obrigatórios", nil)
	}

	if len(strings.TrimSpace(nome)) < 2 {
		return "", nil, apperrors.BadRequest("O nome deve ter pelo menos 2 caracteres", nil)
	}

	if !emailRegex.MatchString(email) {
		return "", nil, apperrors.BadRequest("Formato de email inválido", nil)
	}

	if len(senha) < s.config.PasswordMinLen {
		return "", nil, apperrors.BadRequest(
			fmt.Sprintf("A senha deve ter pelo menos %d caracteres", s.config.PasswordMinLen), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, apperrors.InternalServer("Erro interno do servidor. Tente novamente em alguns minutos.", err)
	}

	entity := &model.UsuarioEntity{
		Nome:               strings.TrimSpace(nome),
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Senha:              string(hash),
		Perfil:             model.PerfilUsuario,
		Ativo:              true,
		UsuarioCriacao:     "Sistema",
		UsuarioAtualizacao: "Sistema",
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, repository.ErrEmailEmUso) {
			return "", nil, apperrors.BadRequest("Este email já está cadastrado. Tente fazer login ou use um email diferente.", err)
		}
		return "", nil, apperrors.InternalServer("Erro interno do servidor. Tente novamente em alguns minutos.", err)
	}

	token, err := s.keyManager.GenerateToken(entity.ID, entity.Perfil, s.config.TokenExpiration)
	if err != nil {
		return "", nil, apperrors.InternalServer("Erro interno do servidor. Tente novamente em alguns minutos.", err)
	}

	return token, entity.ToUsuario(), nil
}

// GetCurrentUser retorna os dados do usuário autenticado
func (s *Service) GetCurrentUser(ctx context.Context, id uint) (*model.Usuario, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return nil, apperrors.NotFound("Usuário", err)
		}
		return nil, apperrors.InternalServer("Erro ao obter dados do usuário", err)
	}
	return entity.ToUsuario(), nil
}

// RefreshToken valida o token informado e emite um novo com a mesma identidade
func (s *Service) RefreshToken(ctx context.Context, token string) (string, *model.Usuario, error) {
	if token == "" {
		return "", nil, apperrors.BadRequest("Token não fornecido", nil)
	}

	claims, err := s.keyManager.VerifyToken(token)
	if err != nil {
		return "", nil, apperrors.Unauthorized("Token inválido ou expirado", err)
	}

	entity, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, apperrors.Unauthorized("Usuário inválido ou inativo", err)
	}
	if !entity.Ativo {
		return "", nil, apperrors.Unauthorized("Usuário inválido ou inativo", nil)
	}

	newToken, err := s.keyManager.GenerateToken(entity.ID, entity.Perfil, s.config.TokenExpiration)
	if err != nil {
		return "", nil, apperrors.InternalServer("Erro ao renovar token", err)
	}

	return newToken, entity.ToUsuario(), nil
}

// ForgotPassword gera um token de redefinição de senha com validade curta.
// A resposta nunca revela se o e-mail está cadastrado; a URL de redefinição
// só é retornada para ambientes de desenvolvimento.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apperrors.BadRequest("Email é obrigatório", nil)
	}

	entity, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return "", nil
		}
		return "", apperrors.InternalServer("Erro ao processar solicitação de recuperação de senha", err)
	}

	resetToken := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(resetToken), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.InternalServer("Erro ao processar solicitação de recuperação de senha", err)
	}

	tokenHash := string(hash)
	expiracao := time.Now().Add(s.config.ResetTokenExpiry)
	entity.TokenResetSenha = &tokenHash
	entity.ExpiracaoTokenReset = &expiracao

	if err := s.repo.Update(ctx, entity); err != nil {
		return "", apperrors.InternalServer("Erro ao processar solicitação de recuperação de senha", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.FrontendURL, resetToken)
	return resetURL, nil
}

// ResetPassword troca a senha do usuário dono do token de redefinição
func (s *Service) ResetPassword(ctx context.Context, token, senha, confirmacaoSenha string) error {
	if token == "" || senha == "" {
		return apperrors.BadRequest("Token e senha são obrigatórios", nil)
	}

	if senha != confirmacaoSenha {
		return apperrors.BadRequest("As senhas não conferem", nil)
	}

	if len(senha) < s.config.PasswordMinLen {
		return apperrors.BadRequest(
			fmt.Sprintf("A senha deve ter pelo menos %d caracteres", s.config.PasswordMinLen), nil)
	}

	candidatos, err := s.repo.ListWithActiveResetToken(ctx)
	if err != nil {
		return apperrors.InternalServer("Erro ao redefinir senha", err)
	}

	var dono *model.UsuarioEntity
	for _, candidato := range candidatos {
		if candidato.TokenResetSenha == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*candidato.TokenResetSenha), []byte(token)) == nil {
			dono = candidato
			break
		}
	}

	if dono == nil {
		return apperrors.BadRequest("Token inválido ou expirado", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalServer("Erro ao redefinir senha", err)
	}

	dono.Senha = string(hash)
	dono.TokenResetSenha = nil
	dono.ExpiracaoTokenReset = nil

	if err := s.repo.Update(ctx, dono); err != nil {
		return apperrors.InternalServer("Erro ao redefinir senha", err)
	}

	return nil
}
