package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juscash/publicacoes-api/internal/app/publicacao"
	"github.com/juscash/publicacoes-api/internal/domain/model"
)

const dateLayout = "2006-01-02"

// PublicacaoHandler implementa os endpoints de publicações
type PublicacaoHandler struct {
	service *publicacao.Service
	logger  *zap.Logger
}

// NewPublicacaoHandler cria um novo handler de publicações
func NewPublicacaoHandler(service *publicacao.Service, logger *zap.Logger) *PublicacaoHandler {
	return &PublicacaoHandler{
		service: service,
		logger:  logger,
	}
}

// noStore evita que intermediários guardem respostas de listagem
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// pageAndLimit aceita os pares pagina/page e limite/limit da API original
func pageAndLimit(c *gin.Context, defaultLimit int) (int, int) {
	page := parsePositiveQuery(c, "pagina", 0)
	if page == 0 {
		page = parsePositiveQuery(c, "page", 1)
	}
	limit := parsePositiveQuery(c, "limite", 0)
	if limit == 0 {
		limit = parsePositiveQuery(c, "limit", defaultLimit)
	}
	return page, limit
}

// List lista publicações com paginação e ordenação configuráveis
func (h *PublicacaoHandler) List(c *gin.Context) {
	page, limit := pageAndLimit(c, 50)
	sort := c.DefaultQuery("sort", "dataCriacao")
	order := c.DefaultQuery("order", "DESC")

	noStore(c)

	pubs, paginacao, err := h.service.List(c.Request.Context(), page, limit, sort, order)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	if pubs == nil {
		pubs = []*model.Publicacao{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"publicacoes": pubs,
		"pagination":  paginacao,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// ListByStatus lista um balde do quadro, com filtros de texto e de datas
func (h *PublicacaoHandler) ListByStatus(c *gin.Context) {
	status := model.Status(c.Param("status"))
	page, limit := pageAndLimit(c, 50)

	filtro := model.PublicacaoFiltro{
		TextoPesquisa: c.Query("textoPesquisa"),
	}

	if raw := c.Query("dataInicio"); raw != "" {
		data, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de data inválido. Use YYYY-MM-DD"})
			return
		}
		filtro.DataInicio = &data
	}

	if raw := c.Query("dataFim"); raw != "" {
		data, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de data inválido. Use YYYY-MM-DD"})
			return
		}
		filtro.DataFim = &data
	}

	noStore(c)

	pubs, paginacao, err := h.service.ListByStatus(c.Request.Context(), status, filtro, page, limit)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	if pubs == nil {
		pubs = []*model.Publicacao{}
	}

	filtrosAplicados := gin.H{
		"textoPesquisa": nilIfEmpty(filtro.TextoPesquisa),
		"dataInicio":    formatDate(filtro.DataInicio),
		"dataFim":       formatDate(filtro.DataFim),
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"publicacoes":      pubs,
		"pagination":       paginacao,
		"timestamp":        time.Now().Format(time.RFC3339),
		"status":           status,
		"filtrosAplicados": filtrosAplicados,
	})
}

// ListByDateRange lista publicações disponibilizadas dentro do intervalo
func (h *PublicacaoHandler) ListByDateRange(c *gin.Context) {
	inicio, errInicio := time.Parse(dateLayout, c.Param("inicio"))
	fim, errFim := time.Parse(dateLayout, c.Param("fim"))
	if errInicio != nil || errFim != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de data inválido. Use YYYY-MM-DD"})
		return
	}

	page, limit := pageAndLimit(c, 20)

	pubs, paginacao, err := h.service.ListByDateRange(c.Request.Context(), inicio, fim, page, limit)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	if pubs == nil {
		pubs = []*model.Publicacao{}
	}

	c.JSON(http.StatusOK, gin.H{
		"publicacoes": pubs,
		"pagination":  paginacao,
	})
}

// ListByProcesso busca publicações pelo número do processo
func (h *PublicacaoHandler) ListByProcesso(c *gin.Context) {
	pubs, err := h.service.ListByProcesso(c.Request.Context(), c.Param("numero"))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	if pubs == nil {
		pubs = []*model.Publicacao{}
	}

	c.JSON(http.StatusOK, gin.H{"publicacoes": pubs})
}

// GetByID obtém uma publicação pelo identificador
func (h *PublicacaoHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Identificador inválido"})
		return
	}

	pub, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"publicacao": pub,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// Create insere uma nova publicação com status inicial "nova"
func (h *PublicacaoHandler) Create(c *gin.Context) {
	var pub model.Publicacao
	if err := c.ShouldBindJSON(&pub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &pub, auditUser(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Publicação criada com sucesso",
		"publicacao": created,
	})
}

// Update altera os campos de uma publicação
func (h *PublicacaoHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var alteracoes model.Publicacao
	if err := c.ShouldBindJSON(&alteracoes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}

	pub, err := h.service.Update(c.Request.Context(), id, &alteracoes, auditUser(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Publicação atualizada com sucesso",
		"publicacao": pub,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus movimenta a publicação no fluxo de trabalho
func (h *PublicacaoHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos: " + err.Error()})
		return
	}

	novoStatus := model.Status(req.Status)
	if !model.IsValidStatus(novoStatus) {
		valores := make([]string, 0, len(model.AllStatuses()))
		for _, s := range model.AllStatuses() {
			valores = append(valores, string(s))
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status inválido. Valores aceitos: " + strings.Join(valores, ", "),
		})
		return
	}

	pub, err := h.service.UpdateStatus(c.Request.Context(), id, novoStatus, auditUser(c))
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Status da publicação atualizado com sucesso",
		"publicacao": pub,
	})
}

// Delete remove uma publicação
func (h *PublicacaoHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador inválido"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Publicação excluída com sucesso"})
}

// Estatisticas agrega os totais exibidos no painel
func (h *PublicacaoHandler) Estatisticas(c *gin.Context) {
	stats, err := h.service.GetEstatisticas(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "error")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
