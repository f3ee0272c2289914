package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/app/usuario"
)

// UsuarioHandler implementa os endpoints administrativos de usuários
type UsuarioHandler struct {
	service *usuario.Service
	logger  *zap.Logger
}

// NewUsuarioHandler cria um novo handler de usuários
func NewUsuarioHandler(service *usuario.Service, logger *zap.Logger) *UsuarioHandler {
	return &UsuarioHandler{
		service: service,
		logger:  logger,
	}
}

// List retorna todos os usuários ordenados por nome
func (h *UsuarioHandler) List(c *gin.Context) {
	usuarios, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, usuarios)
}

// GetByID obtém um usuário pelo identificador
func (h *UsuarioHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, u)
}

type usuarioRequest struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	Perfil string `json:"perfil"`
	Active *bool  `json:"active"`
}

// Create insere um novo usuário
func (h *UsuarioHandler) Create(c *gin.Context) {
	var req usuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome, e-mail e senha são obrigatórios."})
		return
	}

	u, err := h.service.Create(c.Request.Context(), usuario.CreateInput{
		Nome:   req.Nome,
		Email:  req.Email,
		Senha:  req.Senha,
		Perfil: req.Perfil,
		Active: req.Active,
	}, auditUser(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"usuario": u})
}

// Update altera os dados de um usuário existente
func (h *UsuarioHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var req usuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}

	u, err := h.service.Update(c.Request.Context(), id, usuario.UpdateInput{
		Nome:   req.Nome,
		Email:  req.Email,
		Senha:  req.Senha,
		Perfil: req.Perfil,
		Active: req.Active,
	}, auditUser(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usuario": u})
}

// Delete remove um usuário
func (h *UsuarioHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Usuário excluído com sucesso!"})
}
