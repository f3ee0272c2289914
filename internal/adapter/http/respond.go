package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
)

// Chaves de contexto preenchidas pelo middleware de autenticação
const (
	ContextUserIDKey     = "userID"
	ContextUserPerfilKey = "userPerfil"
	ContextUserNomeKey   = "userNome"
	ContextUserEmailKey  = "userEmail"
)

// respondError converte um erro de serviço na resposta HTTP correspondente.
// A chave do corpo varia conforme o endpoint ("mensagem" nos de autenticação,
// "error" nos demais), acompanhando o contrato original da API.
func respondError(c *gin.Context, logger *zap.Logger, err error, chave string) {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		body := gin.H{chave: apiErr.Message}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		if apiErr.Code >= http.StatusInternalServerError {
			logger.Error("erro interno no atendimento da requisição",
				zap.String("path", c.FullPath()),
				zap.Error(apiErr))
		}
		c.JSON(apiErr.Code, body)
		return
	}

	logger.Error("erro não mapeado no atendimento da requisição",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{chave: "Erro interno do servidor. Tente novamente em alguns minutos."})
}

// auditUser devolve o rótulo de auditoria do usuário autenticado (nome ou e-mail)
func auditUser(c *gin.Context) string {
	if nome := c.GetString(ContextUserNomeKey); nome != "" {
		return nome
	}
	return c.GetString(ContextUserEmailKey)
}

// currentUserID devolve o id do usuário autenticado, 0 quando ausente
func currentUserID(c *gin.Context) uint {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	id, ok := value.(uint)
	if !ok {
		return 0
	}
	return id
}

// parseIDParam interpreta o parâmetro de rota :id como identificador numérico
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePositiveQuery interpreta um parâmetro de consulta numérico com valor padrão
func parsePositiveQuery(c *gin.Context, nome string, padrao int) int {
	raw := c.Query(nome)
	if raw == "" {
		return padrao
	}
	valor, err := strconv.Atoi(raw)
	if err != nil || valor < 1 {
		return padrao
	}
	return valor
}
