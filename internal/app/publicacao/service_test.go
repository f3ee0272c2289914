package publicacao

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

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
	"github.com/juscash/publicacoes-api/internal/mocks"
	apperrors "github.com/juscash/publicacoes-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *mocks.MockPublicacaoRepository, *mocks.MockCache) {
	repo := new(mocks.MockPublicacaoRepository)
	cacheMock := new(mocks.MockCache)
	svc := NewService(repo, cacheMock, zaptest.NewLogger(t))
	return svc, repo, cacheMock
}

func requireAPIError(t *testing.T, err error, code int) *apperrors.APIError {
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestList_Paginacao(t *testing.T) {
	svc, repo, _ := newTestService(t)

	pubs := []*model.Publicacao{{ID: 1}, {ID: 2}}
	repo.On("List", mock.Anything, 2, 10, "dataCriacao", "desc").
		Return(pubs, int64(15), nil)

	result, paginacao, err := svc.List(context.Background(), 2, 10, "dataCriacao", "desc")
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// 15 registros com limite 10 ocupam 2 páginas
	assert.Equal(t, int64(15), paginacao.Total)
	assert.Equal(t, int64(2), paginacao.TotalPages)
	assert.Equal(t, 2, paginacao.CurrentPage)
	assert.Equal(t, 10, paginacao.Limit)
}

func TestListByStatus_StatusInvalido(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.ListByStatus(context.Background(), model.Status("arquivada"), model.PublicacaoFiltro{}, 1, 50)
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestListByStatus_VazioNaoEhErro(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("ListByStatus", mock.Anything, model.StatusNova, mock.Anything, 1, 50).
		Return([]*model.Publicacao{}, int64(0), nil)

	pubs, paginacao, err := svc.ListByStatus(context.Background(), model.StatusNova, model.PublicacaoFiltro{}, 1, 50)
	require.NoError(t, err)
	assert.Empty(t, pubs)
	assert.Equal(t, int64(0), paginacao.Total)
	assert.Equal(t, int64(0), paginacao.TotalPages)
}

func TestListByDateRange_IntervaloInvertido(t *testing.T) {
	svc, _, _ := newTestService(t)

	inicio := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	fim := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.ListByDateRange(context.Background(), inicio, fim, 1, 50)
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestCreate_DefinePadroes(t *testing.T) {
	svc, repo, cacheMock := newTestService(t)

	repo.On("Exists", mock.Anything, "0001234-56.2025.8.26.0100", mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	cacheMock.On("Delete", mock.Anything, "estatisticas").Return(nil)

	pub := &model.Publicacao{
		NumeroProcesso: "0001234-56.2025.8.26.0100",
		Status:         model.StatusProcessada,
		Autor:          "Maria da Silva",
	}

	created, err := svc.Create(context.Background(), pub, "")
	require.NoError(t, err)

	assert.Equal(t, model.StatusNova, created.Status)
	assert.Equal(t, model.ReuPadrao, created.Reu)
	assert.Equal(t, "Sistema", created.UsuarioCriacao)
	repo.AssertExpectations(t)
}

func TestCreate_SemNumeroProcesso(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &model.Publicacao{}, "admin")
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestCreate_Duplicada(t *testing.T) {
	svc, repo, _ := newTestService(t)

	data := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	repo.On("Exists", mock.Anything, "0001234-56.2025.8.26.0100", data).Return(true, nil)

	pub := &model.Publicacao{
		NumeroProcesso:       "0001234-56.2025.8.26.0100",
		DataDisponibilizacao: &data,
	}

	_, err := svc.Create(context.Background(), pub, "admin")
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestUpdateStatus_MovimentacaoPermitida(t *testing.T) {
	svc, repo, cacheMock := newTestService(t)

	repo.On("GetByID", mock.Anything, uint(1)).
		Return(&model.Publicacao{ID: 1, Status: model.StatusNova}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Publicacao) bool {
		return p.Status == model.StatusLida && p.UsuarioAtualizacao == "Maria"
	})).Return(nil)
	cacheMock.On("Delete", mock.Anything, "estatisticas").Return(nil)

	pub, err := svc.UpdateStatus(context.Background(), 1, model.StatusLida, "Maria")
	require.NoError(t, err)
	assert.Equal(t, model.StatusLida, pub.Status)
	assert.NotNil(t, pub.DataAtualizacao)
}

func TestUpdateStatus_MovimentacaoRejeitada(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("GetByID", mock.Anything, uint(1)).
		Return(&model.Publicacao{ID: 1, Status: model.StatusLida}, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, model.StatusProcessada, "Maria")
	apiErr := requireAPIError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "Publicações lidas devem ser enviadas ao advogado antes de serem concluídas.", apiErr.Message)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateStatus_StatusDesconhecido(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), 1, model.Status("arquivada"), "Maria")
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestUpdateStatus_PublicacaoInexistente(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("GetByID", mock.Anything, uint(99)).
		Return(nil, repository.ErrPublicacaoNotFound)

	_, err := svc.UpdateStatus(context.Background(), 99, model.StatusLida, "Maria")
	requireAPIError(t, err, http.StatusNotFound)
}

func TestDelete_Inexistente(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.On("Delete", mock.Anything, uint(42)).Return(repository.ErrPublicacaoNotFound)

	err := svc.Delete(context.Background(), 42)
	requireAPIError(t, err, http.StatusNotFound)
}

func TestGetEstatisticas_CacheMiss(t *testing.T) {
	svc, repo, cacheMock := newTestService(t)

	cacheMock.On("Get", mock.Anything, "estatisticas", mock.Anything).
		Return(false, nil, nil)
	repo.On("CountByStatus", mock.Anything).Return(map[model.Status]int64{
		model.StatusNova:       3,
		model.StatusLida:       2,
		model.StatusEnviada:    1,
		model.StatusProcessada: 4,
	}, nil)
	repo.On("CountCreatedSince", mock.Anything, mock.Anything).Return(int64(6), nil)
	cacheMock.On("Set", mock.Anything, "estatisticas", mock.Anything, 5*time.Minute).Return(nil)

	stats, err := svc.GetEstatisticas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalGeral)
	assert.Equal(t, int64(6), stats.UltimosMes)
	assert.Equal(t, int64(3), stats.TotalPorStatus[model.StatusNova])
	cacheMock.AssertExpectations(t)
}

func TestGetEstatisticas_CacheHit(t *testing.T) {
	svc, repo, cacheMock := newTestService(t)

	cacheMock.On("Get", mock.Anything, "estatisticas", mock.Anything).
		Return(true, nil, func(dest interface{}) {
			stats := dest.(*model.Estatisticas)
			stats.TotalGeral = 7
			stats.UltimosMes = 2
		})

	stats, err := svc.GetEstatisticas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalGeral)

	repo.AssertNotCalled(t, "CountByStatus", mock.Anything)
}
