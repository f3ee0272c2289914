package model

import "time"

// Perfis de acesso aceitos
const (
	PerfilAdmin        = "admin"
	PerfilUsuario      = "usuario"
	PerfilVisualizador = "visualizador"
)

// Usuario representa um usuário do sistema nas respostas da API (sem a senha)
type Usuario struct {
	ID          uint       `json:"id"`
	Nome        string     `json:"nome"`
	Email       string     `json:"email"`
	Perfil      string     `json:"perfil"`
	Ativo       bool       `json:"ativo"`
	Active      bool       `json:"active"`
	UltimoLogin *time.Time `json:"ultimoLogin,omitempty"`
	DataCriacao time.Time  `json:"dataCriacao"`
}

// UsuarioEntity é a representação de banco de dados de um usuário
type UsuarioEntity struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement"`
	Nome                string     `gorm:"size:255;not null"`
	Email               string     `gorm:"uniqueIndex;size:255;not null"`
	Senha               string     `gorm:"size:255;not null"`
	Perfil              string     `gorm:"size:20;default:visualizador;not null"`
	Ativo               bool       `gorm:"default:true;not null"`
	DataCriacao         time.Time  `gorm:"column:data_criacao;autoCreateTime"`
	DataAtualizacao     *time.Time `gorm:"column:data_atualizacao"`
	UltimoLogin         *time.Time `gorm:"column:ultimo_login"`
	TokenResetSenha     *string    `gorm:"column:token_reset_senha;size:255"`
	ExpiracaoTokenReset *time.Time `gorm:"column:expiracao_token_reset"`
	UsuarioCriacao      string     `gorm:"column:usuario_criacao;size:255"`
	UsuarioAtualizacao  string     `gorm:"column:usuario_atualizacao;size:255"`
}

// TableName define o nome da tabela
func (UsuarioEntity) TableName() string {
	return "usuarios"
}

// ToUsuario converte a entidade para o modelo de resposta, descartando a senha
func (e *UsuarioEntity) ToUsuario() *Usuario {
	return &Usuario{
		ID:          e.ID,
		Nome:        e.Nome,
		Email:       e.Email,
		Perfil:      e.Perfil,
		Ativo:       e.Ativo,
		Active:      e.Ativo,
		UltimoLogin: e.UltimoLogin,
		DataCriacao: e.DataCriacao,
	}
}

// IsAdmin verifica se o usuário tem perfil administrativo
func (u *Usuario) IsAdmin() bool {
	return u != nil && u.Perfil == PerfilAdmin
}
