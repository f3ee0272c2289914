package model

import "time"

// Status representa o estágio de uma publicação no fluxo de trabalho
type Status string

const (
	StatusNova       Status = "nova"
	StatusLida       Status = "lida"
	StatusEnviada    Status = "enviada"
	StatusProcessada Status = "processada"
)

// ReuPadrao é o réu padrão das publicações do DJE acompanhadas pelo sistema
const ReuPadrao = "Instituto Nacional do Seguro Social - INSS"

// AllStatuses lista os valores aceitos para o campo status
func AllStatuses() []Status {
	return []Status{StatusNova, StatusLida, StatusEnviada, StatusProcessada}
}

// IsValidStatus verifica se o valor informado é um status conhecido
func IsValidStatus(s Status) bool {
	switch s {
	case StatusNova, StatusLida, StatusEnviada, StatusProcessada:
		return true
	}
	return false
}

// Publicacao representa uma publicação do diário oficial acompanhada pelo sistema
type Publicacao struct {
	ID                     uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	NumeroProcesso         string     `json:"numeroProcesso" gorm:"column:numero_processo;size:50;index"`
	DataDisponibilizacao   *time.Time `json:"dataDisponibilizacao" gorm:"column:data_disponibilizacao;index"`
	Autor                  string     `json:"autor" gorm:"type:text"`
	Reu                    string     `json:"reu" gorm:"type:text"`
	Advogado               string     `json:"advogado" gorm:"type:text"`
	ConteudoCompleto       string     `json:"conteudoCompleto" gorm:"column:conteudo_completo;type:text"`
	ValorPrincipal         *float64   `json:"valorPrincipal" gorm:"column:valor_principal;type:decimal(10,2)"`
	ValorJurosMoratorios   *float64   `json:"valorJurosMoratorios" gorm:"column:valor_juros_moratorios;type:decimal(10,2)"`
	HonorariosAdvocaticios *float64   `json:"honorariosAdvocaticios" gorm:"column:honorarios_advocaticios;type:decimal(10,2)"`
	Status                 Status     `json:"status" gorm:"size:20;default:nova;index"`
	DataCriacao            time.Time  `json:"dataCriacao" gorm:"column:data_criacao;autoCreateTime"`
	DataAtualizacao        *time.Time `json:"dataAtualizacao" gorm:"column:data_atualizacao"`
	UsuarioCriacao         string     `json:"usuarioCriacao" gorm:"column:usuario_criacao;size:255"`
	UsuarioAtualizacao     string     `json:"usuarioAtualizacao" gorm:"column:usuario_atualizacao;size:255"`
}

// TableName define o nome da tabela
func (Publicacao) TableName() string {
	return "publicacoes"
}

// PublicacaoFiltro contém os filtros opcionais da listagem por status
type PublicacaoFiltro struct {
	TextoPesquisa string
	DataInicio    *time.Time
	DataFim       *time.Time
}

// Paginacao descreve os metadados de paginação retornados nas listagens
type Paginacao struct {
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// NewPaginacao calcula os metadados a partir do total e dos parâmetros da consulta
func NewPaginacao(total int64, page, limit int) Paginacao {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Paginacao{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
	}
}

// Estatisticas agrega os totais exibidos no painel
type Estatisticas struct {
	TotalGeral     int64            `json:"totalGeral"`
	TotalPorStatus map[Status]int64 `json:"totalPorStatus"`
	UltimosMes     int64            `json:"ultimosMes"`
}
