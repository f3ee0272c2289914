package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/juscash/publicacoes-api/internal/app/auth"
	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/mocks"
	"github.com/juscash/publicacoes-api/internal/testutils"
	"github.com/juscash/publicacoes-api/pkg/security"
)

func setupAuthRouter(t *testing.T, repo *mocks.MockUsuarioRepository) *gin.Engine {
	t.Setenv("JWT_SECRET_KEY", "chave-de-teste-com-tamanho-suficiente-123456")

	keyManager, err := security.NewKeyManager(testutils.TestLogger(t))
	require.NoError(t, err)

	service := auth.NewService(repo, keyManager, auth.Config{}, testutils.TestLogger(t))
	handler := NewAuthHandler(service, testutils.TestLogger(t))

	router := testutils.SetupTestRouter(t)
	grupo := router.Group("/api/auth")
	grupo.POST("/login", handler.Login)
	grupo.POST("/registro", handler.Registro)
	grupo.POST("/logout", handler.Logout)
	grupo.POST("/refresh-token", handler.RefreshToken)
	grupo.POST("/forgot-password", handler.ForgotPassword)
	grupo.POST("/reset-password", handler.ResetPassword)

	return router
}

func usuarioComSenha(t *testing.T, senha string) *model.UsuarioEntity {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)

	return &model.UsuarioEntity{
		ID:     1,
		Nome:   "Maria Souza",
		Email:  "maria@exemplo.com",
		Senha:  string(hash),
		Perfil: model.PerfilUsuario,
		Ativo:  true,
	}
}

func TestLogin_Sucesso(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	entity := usuarioComSenha(t, "senha123")
	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var body struct {
		Token   string        `json:"token"`
		Usuario model.Usuario `json:"usuario"`
	}
	testutils.ParseResponse(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "maria@exemplo.com", body.Usuario.Email)
}

func TestLogin_EmailNaoCadastrado(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	repo.On("GetByEmail", mock.Anything, "ninguem@exemplo.com").
		Return((*model.UsuarioEntity)(nil), repository.ErrUsuarioNotFound)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ninguem@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Email não cadastrado. Verifique o email ou crie uma nova conta.", body["mensagem"])
}

func TestLogin_SenhaIncorreta(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(usuarioComSenha(t, "outra-senha"), nil)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Senha incorreta. Verifique sua senha e tente novamente.", body["mensagem"])
}

func TestLogin_ContaDesativada(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	entity := usuarioComSenha(t, "senha123")
	entity.Ativo = false
	repo.On("GetByEmail", mock.Anything, "maria@exemplo.com").Return(entity, nil)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "maria@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusForbidden)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Sua conta está desativada. Entre em contato com o suporte.", body["mensagem"])
}

func TestRegistro_Sucesso(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.UsuarioEntity) bool {
		return u.Perfil == model.PerfilUsuario && u.Ativo && u.Email == "novo@exemplo.com"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.UsuarioEntity).ID = 10
	}).Return(nil)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/registro", gin.H{
		"nome":  "Novo Usuário",
		"email": "novo@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusCreated)

	var body struct {
		Token    string        `json:"token"`
		Usuario  model.Usuario `json:"usuario"`
		Mensagem string        `json:"mensagem"`
	}
	testutils.ParseResponse(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, uint(10), body.Usuario.ID)
	assert.Equal(t, "usuario", body.Usuario.Perfil)
	assert.Equal(t, "Usuário criado com sucesso", body.Mensagem)
}

func TestRegistro_EmailEmUso(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailEmUso)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/registro", gin.H{
		"nome":  "Novo Usuário",
		"email": "maria@exemplo.com",
		"senha": "senha123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Este email já está cadastrado. Tente fazer login ou use um email diferente.", body["mensagem"])
}

func TestRegistro_SenhaCurta(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/registro", gin.H{
		"nome":  "Novo Usuário",
		"email": "novo@exemplo.com",
		"senha": "123",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/logout", nil, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Logout realizado com sucesso", body["message"])
}

func TestRefreshToken_Invalido(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/refresh-token", gin.H{
		"token": "nao-e-um-token",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Token inválido ou expirado", body["error"])
}

func TestForgotPassword_NaoRevelaEmailDesconhecido(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	repo.On("GetByEmail", mock.Anything, "ninguem@exemplo.com").
		Return((*model.UsuarioEntity)(nil), repository.ErrUsuarioNotFound)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/forgot-password", gin.H{
		"email": "ninguem@exemplo.com",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusOK)

	var body map[string]interface{}
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Se o email estiver cadastrado, você receberá as instruções para redefinir sua senha", body["message"])
	assert.NotContains(t, body, "resetUrl")
}

func TestResetPassword_SenhasNaoConferem(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	router := setupAuthRouter(t, repo)

	resp := testutils.MakeRequest(t, router, http.MethodPost, "/api/auth/reset-password", gin.H{
		"token":            "qualquer",
		"senha":            "senha123",
		"confirmacaoSenha": "senha456",
	}, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusBadRequest)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "As senhas não conferem", body["error"])
}
