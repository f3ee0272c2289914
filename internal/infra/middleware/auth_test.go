package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/mocks"
	"github.com/juscash/publicacoes-api/internal/testutils"
	"github.com/juscash/publicacoes-api/pkg/security"
)

func setupAuthMiddleware(t *testing.T, repo *mocks.MockUsuarioRepository) (*AuthMiddleware, *security.KeyManager) {
	t.Setenv("JWT_SECRET_KEY", "chave-de-teste-com-tamanho-suficiente-123456")

	keyManager, err := security.NewKeyManager(testutils.TestLogger(t))
	require.NoError(t, err)

	return NewAuthMiddleware(keyManager, repo, testutils.TestLogger(t)), keyManager
}

func protectedRouter(t *testing.T, am *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	router := testutils.SetupTestRouter(t)
	handlers := append([]gin.HandlerFunc{am.Authenticate}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"perfil": c.GetString(ContextUserPerfilKey)})
	})
	router.GET("/protegido/:id", handlers...)
	return router
}

func TestAuthenticate_SemToken(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, _ := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, nil)

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Acesso não autorizado. Token não fornecido ou em formato inválido.", body["message"])
}

func TestAuthenticate_TokenExpirado(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, keyManager := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am)

	token, err := keyManager.GenerateToken(1, model.PerfilUsuario, -time.Minute)
	require.NoError(t, err)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Sua sessão expirou. Por favor, faça login novamente.", body["message"])
}

func TestAuthenticate_TokenMalformado(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, _ := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer nao-e-um-jwt",
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Token inválido. Por favor, faça login novamente.", body["message"])
}

func TestAuthenticate_ContaDesativada(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, keyManager := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am)

	repo.On("GetByID", mock.Anything, uint(1)).Return(&model.UsuarioEntity{
		ID:     1,
		Nome:   "Maria",
		Email:  "maria@exemplo.com",
		Perfil: model.PerfilUsuario,
		Ativo:  false,
	}, nil)

	token, err := keyManager.GenerateToken(1, model.PerfilUsuario, time.Hour)
	require.NoError(t, err)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusForbidden)
}

func TestAuthenticate_UsuarioRemovido(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, keyManager := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am)

	repo.On("GetByID", mock.Anything, uint(1)).Return(nil, repository.ErrUsuarioNotFound)

	token, err := keyManager.GenerateToken(1, model.PerfilUsuario, time.Hour)
	require.NoError(t, err)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusUnauthorized)
}

func TestAdminOnly_PerfilUsuarioRejeitado(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, keyManager := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am, am.AdminOnly)

	repo.On("GetByID", mock.Anything, uint(1)).Return(&model.UsuarioEntity{
		ID:     1,
		Perfil: model.PerfilUsuario,
		Ativo:  true,
	}, nil)

	token, err := keyManager.GenerateToken(1, model.PerfilUsuario, time.Hour)
	require.NoError(t, err)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusForbidden)

	var body map[string]string
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "Acesso restrito a administradores.", body["message"])
}

func TestAdminOnly_AdminPassa(t *testing.T) {
	repo := new(mocks.MockUsuarioRepository)
	am, keyManager := setupAuthMiddleware(t, repo)
	router := protectedRouter(t, am, am.AdminOnly)

	repo.On("GetByID", mock.Anything, uint(2)).Return(&model.UsuarioEntity{
		ID:     2,
		Perfil: model.PerfilAdmin,
		Ativo:  true,
	}, nil)

	token, err := keyManager.GenerateToken(2, model.PerfilAdmin, time.Hour)
	require.NoError(t, err)

	resp := testutils.MakeRequest(t, router, http.MethodGet, "/protegido/1", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})

	testutils.RequireHTTPStatus(t, resp, http.StatusOK)
}

func TestAdminOrSelf(t *testing.T) {
	casos := []struct {
		nome   string
		userID uint
		perfil string
		rota   string
		status int
	}{
		{"dono do recurso passa", 5, model.PerfilUsuario, "/protegido/5", http.StatusOK},
		{"outro usuário é rejeitado", 5, model.PerfilUsuario, "/protegido/9", http.StatusForbidden},
		{"admin acessa qualquer id", 2, model.PerfilAdmin, "/protegido/9", http.StatusOK},
	}

	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			repo := new(mocks.MockUsuarioRepository)
			am, keyManager := setupAuthMiddleware(t, repo)
			router := protectedRouter(t, am, am.AdminOrSelf)

			repo.On("GetByID", mock.Anything, caso.userID).Return(&model.UsuarioEntity{
				ID:     caso.userID,
				Perfil: caso.perfil,
				Ativo:  true,
			}, nil)

			token, err := keyManager.GenerateToken(caso.userID, caso.perfil, time.Hour)
			require.NoError(t, err)

			resp := testutils.MakeRequest(t, router, http.MethodGet, caso.rota, nil, map[string]string{
				"Authorization": "Bearer " + token,
			})

			testutils.RequireHTTPStatus(t, resp, caso.status)
		})
	}
}
