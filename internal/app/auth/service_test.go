package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/mocks"
	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
	"github.com/juscash/publicacoes-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *mocks.MockUsuarioRepository) {
	t.Setenv("JWT_SECRET_KEY", "chave-de-teste-com-tamanho-suficiente-123456")

	keyManager, err := security.NewKeyManager(zaptest.NewLogger(t))
	require.NoError(t, err)

	repo := new(mocks.MockUsuarioRepository)
	svc := NewService(repo, keyManager, Config{}, zaptest.NewLogger(t))
	return svc, repo
}

func hashSenha(t *testing.T, senha string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func requireAPIError(t *testing.T, err error, code int) *apperrors.APIError {
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestLogin_Sucesso(t *testing.T) {
	svc, repo := newTestService(t)

	entity := &model.UsuarioEntity{
		ID:     1,
		Nome:   "Maria da Silva",
		Email:  "maria@exemplo.com",
		Senha:  hashSenha(t, "segredo123"),
		Perfil: model.PerfilUsuario,
		Ativo:  true,
	}

	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.UsuarioEntity) bool {
		return u.UltimoLogin != nil
	})).Return(nil)

	token, usuario, err := svc.Login(context.Background(), "maria@exemplo.com", "segredo123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Maria da Silva", usuario.Nome)
	repo.AssertExpectations(t)
}

func TestLogin_EmailNaoCadastrado(t *testing.T) {
	svc, repo := newTestService(t)

	repo.On("GetByEmail", mock.Anything, "ninguem@exemplo.com").
		Return(nil, repository.ErrUsuarioNotFound)

	_, _, err := svc.Login(context.Background(), "ninguem@exemplo.com", "qualquer")
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Email não cadastrado. Verifique o email ou crie uma nova conta.", apiErr.Message)
}

func TestLogin_SenhaIncorreta(t *testing.T) {
	svc, repo := newTestService(t)

	entity := &model.UsuarioEntity{
		ID:    1,
		Email: "maria@exemplo.com",
		Senha: hashSenha(t, "segredo123"),
		Ativo: true,
	}
	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)

	_, _, err := svc.Login(context.Background(), "maria@exemplo.com", "errada")
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Senha incorreta. Verifique sua senha e tente novamente.", apiErr.Message)
}

func TestLogin_ContaDesativada(t *testing.T) {
	svc, repo := newTestService(t)

	entity := &model.UsuarioEntity{
		ID:    1,
		Email: "maria@exemplo.com",
		Senha: hashSenha(t, "segredo123"),
		Ativo: false,
	}
	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)

	_, _, err := svc.Login(context.Background(), "maria@exemplo.com", "segredo123")
	apiErr := requireAPIError(t, err, http.StatusForbidden)
	assert.Equal(t, "Sua conta está desativada. Entre em contato com o suporte.", apiErr.Message)
}

func TestLogin_EmailInvalido(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "sem-arroba", "segredo123")
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestRegistro_Sucesso(t *testing.T) {
	svc, repo := newTestService(t)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.UsuarioEntity) bool {
		return u.Perfil == model.PerfilUsuario &&
			u.Ativo &&
			u.Email == "joao@exemplo.com" &&
			u.UsuarioCriacao == "Sistema" &&
			u.Senha != "segredo123" // senha deve estar em hash
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*model.UsuarioEntity).ID = 7
	})

	token, usuario, err := svc.Registro(context.Background(), "João", "JOAO@exemplo.com", "segredo123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(7), usuario.ID)
}

func TestRegistro_Validacoes(t *testing.T) {
	svc, _ := newTestService(t)

	testCases := []struct {
		name     string
		nome     string
		email    string
		senha    string
		mensagem string
	}{
		{"campos obrigatórios", "", "", "", "Nome, email e senha são obrigatórios"},
		{"nome curto", "J", "joao@exemplo.com", "segredo123", "O nome deve ter pelo menos 2 caracteres"},
		{"email inválido", "João", "invalido", "segredo123", "Formato de email inválido"},
		{"senha curta", "João", "joao@exemplo.com", "123", "A senha deve ter pelo menos 6 caracteres"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Registro(context.Background(), tc.nome, tc.email, tc.senha)
			apiErr := requireAPIError(t, err, http.StatusBadRequest)
			assert.Equal(t, tc.mensagem, apiErr.Message)
		})
	}
}

func TestRegistro_EmailEmUso(t *testing.T) {
	svc, repo := newTestService(t)

	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailEmUso)

	_, _, err := svc.Registro(context.Background(), "João", "joao@exemplo.com", "segredo123")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Este email já está cadastrado. Tente fazer login ou use um email diferente.", apiErr.Message)
}

func TestRefreshToken_Sucesso(t *testing.T) {
	svc, repo := newTestService(t)

	entity := &model.UsuarioEntity{
		ID:     3,
		Nome:   "Maria",
		Email:  "maria@exemplo.com",
		Perfil: model.PerfilAdmin,
		Ativo:  true,
	}
	repo.On("GetByID", mock.Anything, uint(3)).Return(entity, nil)

	keyManager, err := security.NewKeyManager(zaptest.NewLogger(t))
	require.NoError(t, err)
	token, err := keyManager.GenerateToken(3, model.PerfilAdmin, time.Hour)
	require.NoError(t, err)

	newToken, usuario, err := svc.RefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.Equal(t, uint(3), usuario.ID)
}

func TestRefreshToken_TokenInvalido(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.RefreshToken(context.Background(), "nao-e-um-jwt")
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Token inválido ou expirado", apiErr.Message)
}

func TestRefreshToken_UsuarioInativo(t *testing.T) {
	svc, repo := newTestService(t)

	repo.On("GetByID", mock.Anything, uint(3)).
		Return(&model.UsuarioEntity{ID: 3, Ativo: false}, nil)

	keyManager, err := security.NewKeyManager(zaptest.NewLogger(t))
	require.NoError(t, err)
	token, err := keyManager.GenerateToken(3, model.PerfilUsuario, time.Hour)
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), token)
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Usuário inválido ou inativo", apiErr.Message)
}

func TestForgotPassword_EmailDesconhecidoNaoRevela(t *testing.T) {
	svc, repo := newTestService(t)

	repo.On("GetByEmail", mock.Anything, "ninguem@exemplo.com").
		Return(nil, repository.ErrUsuarioNotFound)

	resetURL, err := svc.ForgotPassword(context.Background(), "ninguem@exemplo.com")
	require.NoError(t, err)
	assert.Empty(t, resetURL)
}

func TestForgotPassword_GeraTokenComExpiracao(t *testing.T) {
	svc, repo := newTestService(t)

	entity := &model.UsuarioEntity{ID: 1, Email: "maria@exemplo.com", Ativo: true}
	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.UsuarioEntity) bool {
		return u.TokenResetSenha != nil &&
			u.ExpiracaoTokenReset != nil &&
			u.ExpiracaoTokenReset.After(time.Now())
	})).Return(nil)

	resetURL, err := svc.ForgotPassword(context.Background(), "maria@exemplo.com")
	require.NoError(t, err)
	assert.Contains(t, resetURL, "/reset-password?token=")
	repo.AssertExpectations(t)
}

func TestResetPassword_Sucesso(t *testing.T) {
	svc, repo := newTestService(t)

	token := "token-de-redefinicao"
	tokenHash := hashSenha(t, token)
	expiracao := time.Now().Add(30 * time.Minute)

	entity := &model.UsuarioEntity{
		ID:                  1,
		Email:               "maria@exemplo.com",
		Senha:               hashSenha(t, "antiga"),
		TokenResetSenha:     &tokenHash,
		ExpiracaoTokenReset: &expiracao,
	}

	repo.On("ListWithActiveResetToken", mock.Anything).
		Return([]*model.UsuarioEntity{entity}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.UsuarioEntity) bool {
		return u.TokenResetSenha == nil && u.ExpiracaoTokenReset == nil
	})).Return(nil)

	err := svc.ResetPassword(context.Background(), token, "novasenha", "novasenha")
	require.NoError(t, err)

	// A nova senha deve validar contra o hash atualizado
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(entity.Senha), []byte("novasenha")))
}

func TestResetPassword_Validacoes(t *testing.T) {
	svc, repo := newTestService(t)

	err := svc.ResetPassword(context.Background(), "", "senha1", "senha1")
	requireAPIError(t, err, http.StatusBadRequest)

	err = svc.ResetPassword(context.Background(), "token", "senha1", "diferente")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "As senhas não conferem", apiErr.Message)

	repo.On("ListWithActiveResetToken", mock.Anything).
		Return([]*model.UsuarioEntity{}, nil)

	err = svc.ResetPassword(context.Background(), "token-desconhecido", "novasenha", "novasenha")
	apiErr = requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Token inválido ou expirado", apiErr.Message)
}
