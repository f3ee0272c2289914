package http

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/app/auth"
)

// AuthHandler implementa os endpoints de autenticação
type AuthHandler struct {
	authService *auth.Service
	logger      *zap.Logger
}

// NewAuthHandler cria um novo handler de autenticação
func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Login autentica o usuário e devolve token + dados do usuário
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Email e senha são obrigatórios"})
		return
	}

	token, usuario, err := h.authService.Login(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		respondError(c, h.logger, err, "mensagem")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"usuario": usuario,
	})
}

type registroRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Registro cria uma conta de acesso com perfil "usuario"
func (h *AuthHandler) Registro(c *gin.Context) {
	var req registroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"mensagem": "Nome, email e senha são obrigatórios"})
		return
	}

	token, usuario, err := h.authService.Registro(c.Request.Context(), req.Nome, req.Email, req.Senha)
	if err != nil {
		respondError(c, h.logger, err, "mensagem")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":    token,
		"usuario":  usuario,
		"mensagem": "Usuário criado com sucesso",
	})
}

// Logout encerra a sessão. O token é stateless; o cliente descarta a credencial.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

// Me devolve os dados do usuário autenticado
func (h *AuthHandler) Me(c *gin.Context) {
	usuario, err := h.authService.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario": usuario})
}

type refreshTokenRequest struct {
	Token string `json:"token"`
}

// RefreshToken emite um novo token a partir de um ainda válido
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token não fornecido"})
		return
	}

	token, usuario, err := h.authService.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"usuario": usuario,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword inicia a recuperação de senha sem revelar se o e-mail existe
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email é obrigatório"})
		return
	}

	resetURL, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	body := gin.H{
		"message": "Se o email estiver cadastrado, você receberá as instruções para redefinir sua senha",
	}
	// A URL só sai na resposta em desenvolvimento, para facilitar testes manuais
	if resetURL != "" && os.Getenv("ENVIRONMENT") == "development" {
		body["resetUrl"] = resetURL
	}

	c.JSON(http.StatusOK, body)
}

type resetPasswordRequest struct {
	Token            string `json:"token"`
	Senha            string `json:"senha"`
	ConfirmacaoSenha string `json:"confirmacaoSenha"`
}

// ResetPassword conclui a recuperação trocando a senha do dono do token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token e senha são obrigatórios"})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Senha, req.ConfirmacaoSenha); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Senha redefinida com sucesso"})
}
