package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/mocks"
	"github.com/juscash/publicacoes-api/pkg/config"
)

const blocoRPV = `Processo 0001234-56.2024.8.26.0053 - Cumprimento de Sentença - Benefício
Previdenciário - MARIA APARECIDA DA SILVA - Vistos. Trata-se de requisição de
pagamento de RPV em face do Instituto Nacional do Seguro Social, referente a
pagamento pelo INSS de benefício previdenciário. Homologo os cálculos
apresentados, os quais correspondem ao seguinte: R$ 15.240,50 - principal
bruto/líquido; R$ 1.830,25 - juros moratórios; R$ 1.524,00 - honorários
advocatícios. Os valores serão requisitados. - ADV: JOSE CARLOS PEREIRA
(OAB 123456/SP)`

const blocoSemRPV = `Processo 0009999-11.2024.8.26.0053 - Procedimento Comum -
JOAO DOS SANTOS - Vistos. Cite-se o réu para apresentar contestação no prazo
legal. - ADV: ANA BEATRIZ LIMA (OAB 654321/SP)`

func TestParse_ExtraiPublicacaoRPV(t *testing.T) {
	parser := NewParser()
	data := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	pubs := parser.Parse(blocoRPV, data)
	require.Len(t, pubs, 1)

	pub := pubs[0]
	assert.Equal(t, "0001234-56.2024.8.26.0053", pub.NumeroProcesso)
	assert.Equal(t, "MARIA APARECIDA DA SILVA", pub.Autor)
	assert.Equal(t, model.ReuPadrao, pub.Reu)
	assert.Equal(t, "JOSE CARLOS PEREIRA (OAB 123456/SP)", pub.Advogado)
	assert.Equal(t, model.StatusNova, pub.Status)
	assert.Equal(t, "Sistema", pub.UsuarioCriacao)
	require.NotNil(t, pub.DataDisponibilizacao)
	assert.Equal(t, data, *pub.DataDisponibilizacao)

	require.NotNil(t, pub.ValorPrincipal)
	assert.InDelta(t, 15240.50, *pub.ValorPrincipal, 0.001)
	require.NotNil(t, pub.ValorJurosMoratorios)
	assert.InDelta(t, 1830.25, *pub.ValorJurosMoratorios, 0.001)
	require.NotNil(t, pub.HonorariosAdvocaticios)
	assert.InDelta(t, 1524.00, *pub.HonorariosAdvocaticios, 0.001)
}

func TestParse_IgnoraBlocoSemRPV(t *testing.T) {
	parser := NewParser()

	pubs := parser.Parse(blocoSemRPV, time.Now())
	assert.Empty(t, pubs)
}

func TestParse_MultiplosBlocos(t *testing.T) {
	parser := NewParser()

	pubs := parser.Parse(blocoRPV+"\n\n"+blocoSemRPV, time.Now())
	require.Len(t, pubs, 1)
	assert.Equal(t, "0001234-56.2024.8.26.0053", pubs[0].NumeroProcesso)
}

func TestParse_SemJurosMoratorios(t *testing.T) {
	bloco := `Processo 0005555-22.2024.8.26.0053 - Cumprimento de Sentença -
PEDRO HENRIQUE ALVES - Vistos. Requisição de RPV referente a pagamento pelo
INSS. Homologo os cálculos que correspondem ao seguinte: R$ 8.000,00 -
principal bruto/líquido; sem - juros moratórios; R$ 800,00 - honorários
advocatícios. Os valores serão requisitados. - ADV: CARLA MENDES SOUZA
(OAB 111222/SP)`

	parser := NewParser()
	pubs := parser.Parse(bloco, time.Now())
	require.Len(t, pubs, 1)

	require.NotNil(t, pubs[0].ValorPrincipal)
	assert.InDelta(t, 8000.00, *pubs[0].ValorPrincipal, 0.001)
	assert.Nil(t, pubs[0].ValorJurosMoratorios)
	require.NotNil(t, pubs[0].HonorariosAdvocaticios)
	assert.InDelta(t, 800.00, *pubs[0].HonorariosAdvocaticios, 0.001)
}

func TestParse_MultiplosAdvogados(t *testing.T) {
	bloco := `Processo 0007777-33.2024.8.26.0053 - Cumprimento de Sentença -
LUIZA FERREIRA COSTA - Vistos. RPV com pagamento pelo INSS. Homologo os
cálculos que correspondem ao seguinte: R$ 5.500,00 - principal bruto/líquido.
Os valores serão requisitados. - ADV: RICARDO NUNES, FERNANDA DIAS ROCHA
(OAB 555666/SP)`

	parser := NewParser()
	pubs := parser.Parse(bloco, time.Now())
	require.Len(t, pubs, 1)
	assert.Equal(t, "RICARDO NUNES (OAB 555666/SP); FERNANDA DIAS ROCHA (OAB 555666/SP)", pubs[0].Advogado)
}

func TestParseValorBR(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado float64
		ok       bool
	}{
		{"15.240,50", 15240.50, true},
		{"1.234.567,89", 1234567.89, true},
		{"800,00", 800.00, true},
		{"500", 500, true},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, caso := range casos {
		v, ok := parseValorBR(caso.entrada)
		assert.Equal(t, caso.ok, ok, "entrada %q", caso.entrada)
		if caso.ok {
			assert.InDelta(t, caso.esperado, v, 0.001, "entrada %q", caso.entrada)
		}
	}
}

func TestWorker_PersistirIgnoraDuplicadas(t *testing.T) {
	repo := new(mocks.MockPublicacaoRepository)
	logger := zaptest.NewLogger(t)

	worker := NewWorker(config.IngestConfig{
		Schedule:    "0 7 * * 1-5",
		HTTPTimeout: 5 * time.Second,
		MaxFails:    3,
	}, repo, nil, logger)

	data := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	nova := &model.Publicacao{NumeroProcesso: "0001111-11.2024.8.26.0053", DataDisponibilizacao: &data}
	repetida := &model.Publicacao{NumeroProcesso: "0002222-22.2024.8.26.0053", DataDisponibilizacao: &data}

	repo.On("Exists", mock.Anything, nova.NumeroProcesso, data).Return(false, nil)
	repo.On("Exists", mock.Anything, repetida.NumeroProcesso, data).Return(true, nil)
	repo.On("Create", mock.Anything, nova).Return(nil)

	inseridas, err := worker.persistir(context.Background(), []*model.Publicacao{nova, repetida})
	require.NoError(t, err)
	assert.Equal(t, 1, inseridas)
	repo.AssertNotCalled(t, "Create", mock.Anything, repetida)
}
