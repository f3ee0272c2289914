package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name     string
		de       model.Status
		para     model.Status
		expected bool
	}{
		{"nova para lida", model.StatusNova, model.StatusLida, true},
		{"lida para enviada", model.StatusLida, model.StatusEnviada, true},
		{"enviada para lida", model.StatusEnviada, model.StatusLida, true},
		{"enviada para processada", model.StatusEnviada, model.StatusProcessada, true},
		{"nova para enviada", model.StatusNova, model.StatusEnviada, false},
		{"nova para processada", model.StatusNova, model.StatusProcessada, false},
		{"lida para nova", model.StatusLida, model.StatusNova, false},
		{"lida para processada", model.StatusLida, model.StatusProcessada, false},
		{"processada para nova", model.StatusProcessada, model.StatusNova, false},
		{"processada para lida", model.StatusProcessada, model.StatusLida, false},
		{"processada para enviada", model.StatusProcessada, model.StatusEnviada, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanTransition(tc.de, tc.para))
		})
	}
}

func TestValidate_MovimentacoesPermitidas(t *testing.T) {
	assert.NoError(t, Validate(model.StatusNova, model.StatusLida))
	assert.NoError(t, Validate(model.StatusLida, model.StatusEnviada))
	assert.NoError(t, Validate(model.StatusEnviada, model.StatusLida))
	assert.NoError(t, Validate(model.StatusEnviada, model.StatusProcessada))
}

func TestValidate_MesmoStatus(t *testing.T) {
	for _, status := range model.AllStatuses() {
		assert.NoError(t, Validate(status, status), "mover para o próprio status deve ser aceito: %s", status)
	}
}

func TestValidate_MensagensEspecificas(t *testing.T) {
	testCases := []struct {
		de       model.Status
		para     model.Status
		mensagem string
	}{
		{model.StatusLida, model.StatusNova, `Publicações lidas não podem retornar para "Novas".`},
		{model.StatusLida, model.StatusProcessada, "Publicações lidas devem ser enviadas ao advogado antes de serem concluídas."},
		{model.StatusProcessada, model.StatusNova, "Publicações concluídas não podem ser movidas."},
		{model.StatusProcessada, model.StatusLida, "Publicações concluídas não podem ser movidas."},
		{model.StatusProcessada, model.StatusEnviada, "Publicações concluídas não podem ser movidas."},
		{model.StatusNova, model.StatusEnviada, "Publicações novas devem ser lidas antes de enviadas ao advogado."},
		{model.StatusNova, model.StatusProcessada, "Publicações novas devem ser lidas e enviadas ao advogado antes de concluídas."},
	}

	for _, tc := range testCases {
		t.Run(string(tc.de)+"-"+string(tc.para), func(t *testing.T) {
			err := Validate(tc.de, tc.para)
			require.Error(t, err)

			var transErr *TransitionError
			require.True(t, errors.As(err, &transErr))
			assert.Equal(t, tc.de, transErr.De)
			assert.Equal(t, tc.para, transErr.Para)
			assert.Equal(t, tc.mensagem, transErr.Message)
		})
	}
}

func TestValidate_StatusDesconhecido(t *testing.T) {
	err := Validate(model.StatusNova, model.Status("arquivada"))
	require.Error(t, err)

	var transErr *TransitionError
	require.True(t, errors.As(err, &transErr))
	assert.Contains(t, transErr.Message, "Status inválido")
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []model.Status{model.StatusLida}, NextStatuses(model.StatusNova))
	assert.Equal(t, []model.Status{model.StatusEnviada}, NextStatuses(model.StatusLida))
	assert.Equal(t, []model.Status{model.StatusLida, model.StatusProcessada}, NextStatuses(model.StatusEnviada))
	assert.Empty(t, NextStatuses(model.StatusProcessada))
}
