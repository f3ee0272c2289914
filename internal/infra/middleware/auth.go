package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/pkg/security"
)

// Chaves de contexto preenchidas após a autenticação
const (
	ContextUserIDKey     = "userID"
	ContextUserPerfilKey = "userPerfil"
	ContextUserNomeKey   = "userNome"
	ContextUserEmailKey  = "userEmail"
)

// AuthMiddleware valida tokens de acesso e carrega o usuário no contexto
type AuthMiddleware struct {
	keyManager *security.KeyManager
	usuarios   repository.UsuarioRepository
	logger     *zap.Logger
}

// NewAuthMiddleware cria uma nova instância do middleware de autenticação
func NewAuthMiddleware(keyManager *security.KeyManager, usuarios repository.UsuarioRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		keyManager: keyManager,
		usuarios:   usuarios,
		logger:     logger,
	}
}

// Authenticate verifica o token Bearer e confirma que a conta segue ativa
func (m *AuthMiddleware) Authenticate(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "Acesso não autorizado. Token não fornecido ou em formato inválido.",
		})
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.keyManager.VerifyToken(tokenString)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpirado) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Sua sessão expirou. Por favor, faça login novamente.",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "Token inválido. Por favor, faça login novamente.",
		})
		return
	}

	usuario, err := m.usuarios.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Usuário não encontrado ou token inválido.",
			})
			return
		}
		m.logger.Error("falha ao carregar usuário autenticado",
			zap.Uint("usuario_id", claims.UserID),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "Erro interno no servidor ao validar autenticação.",
		})
		return
	}

	if !usuario.Ativo {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Sua conta está desativada. Entre em contato com o administrador.",
		})
		return
	}

	c.Set(ContextUserIDKey, usuario.ID)
	c.Set(ContextUserPerfilKey, usuario.Perfil)
	c.Set(ContextUserNomeKey, usuario.Nome)
	c.Set(ContextUserEmailKey, usuario.Email)
	c.Next()
}

// AdminOnly restringe o acesso a administradores. Deve vir após Authenticate.
func (m *AuthMiddleware) AdminOnly(c *gin.Context) {
	if c.GetString(ContextUserPerfilKey) != model.PerfilAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Acesso restrito a administradores.",
		})
		return
	}
	c.Next()
}

// AdminOrSelf permite o acesso ao administrador ou ao dono do recurso :id
func (m *AuthMiddleware) AdminOrSelf(c *gin.Context) {
	if c.GetString(ContextUserPerfilKey) == model.PerfilAdmin {
		c.Next()
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err == nil {
		if userID, exists := c.Get(ContextUserIDKey); exists {
			if uid, ok := userID.(uint); ok && uid == uint(id) {
				c.Next()
				return
			}
		}
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"message": "Você não tem permissão para acessar este recurso.",
	})
}
