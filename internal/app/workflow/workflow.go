// Package workflow concentra as regras de movimentação do quadro de publicações.
// As quatro colunas formam um fluxo quase linear: nova -> lida -> enviada -> processada,
// com retorno permitido apenas de enviada para lida.
package workflow

import (
	"fmt"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

// regrasMovimentacao lista, para cada status de origem, os destinos permitidos
var regrasMovimentacao = map[model.Status][]model.Status{
	model.StatusNova:       {model.StatusLida},
	model.StatusLida:       {model.StatusEnviada},
	model.StatusEnviada:    {model.StatusLida, model.StatusProcessada},
	model.StatusProcessada: {},
}

// mensagensErro traz a explicação de cada movimentação rejeitada
var mensagensErro = map[string]string{
	"lida-nova":          `Publicações lidas não podem retornar para "Novas".`,
	"lida-processada":    "Publicações lidas devem ser enviadas ao advogado antes de serem concluídas.",
	"processada-nova":    "Publicações concluídas não podem ser movidas.",
	"processada-lida":    "Publicações concluídas não podem ser movidas.",
	"processada-enviada": "Publicações concluídas não podem ser movidas.",
	"nova-enviada":       "Publicações novas devem ser lidas antes de enviadas ao advogado.",
	"nova-processada":    "Publicações novas devem ser lidas e enviadas ao advogado antes de concluídas.",
}

// MensagemPadrao é usada quando não há mensagem específica para o par de status
const MensagemPadrao = "Esta movimentação não é permitida."

// TransitionError descreve uma movimentação rejeitada pelo fluxo
type TransitionError struct {
	De      model.Status
	Para    model.Status
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}

// CanTransition verifica se a movimentação entre os dois status é permitida
func CanTransition(de, para model.Status) bool {
	for _, destino := range regrasMovimentacao[de] {
		if destino == para {
			return true
		}
	}
	return false
}

// Validate valida a movimentação e retorna um TransitionError com a mensagem
// adequada quando ela não é permitida. Mover para o próprio status é aceito.
func Validate(de, para model.Status) error {
	if !model.IsValidStatus(para) {
		return &TransitionError{
			De:      de,
			Para:    para,
			Message: fmt.Sprintf("Status inválido: %s", para),
		}
	}

	if de == para {
		return nil
	}

	if CanTransition(de, para) {
		return nil
	}

	chave := string(de) + "-" + string(para)
	mensagem, ok := mensagensErro[chave]
	if !ok {
		mensagem = MensagemPadrao
	}

	return &TransitionError{De: de, Para: para, Message: mensagem}
}

// NextStatuses retorna os destinos permitidos a partir do status informado
func NextStatuses(de model.Status) []model.Status {
	destinos := regrasMovimentacao[de]
	out := make([]model.Status, len(destinos))
	copy(out, destinos)
	return out
}
