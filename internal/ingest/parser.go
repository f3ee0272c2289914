package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/juscash/publicacoes-api/internal/domain/model"
)

// Expressões usadas para recortar o caderno do DJE em blocos de processo e
// extrair os campos de cada bloco. O bloco começa em "Processo" e termina na
// inscrição na OAB do último advogado listado.
var (
	reBloco          = regexp.MustCompile(`(?s)Processo.*?ADV:.*?\(OAB[^)]*\)`)
	reNumeroProcesso = regexp.MustCompile(`\b\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}\b`)
	reAdvogado       = regexp.MustCompile(`ADV:\s+([^(]+?)\s*(\(OAB[^)]*\))`)
	reSepNomes       = regexp.MustCompile(`,|\s+E\s+`)
	reEspacos        = regexp.MustCompile(`\s+`)

	reSecaoValores   = regexp.MustCompile(`(?is)homologo os cálculos[^.]*correspondem ao[^R$]*(.+?)\.\s*Os valores`)
	reValorPrincipal = regexp.MustCompile(`(?i)R\$\s*([0-9.,]+)[^;,]*(?:principal\s*bruto(?:/líquido)?|bruto/líquido)`)
	reSemJuros       = regexp.MustCompile(`(?i)sem\s*-\s*juros\s*morat[óo]rios`)
	reValorJuros     = regexp.MustCompile(`(?i)R\$\s*([0-9.,]+)[^;,]*juros\s*morat[óo]rios`)
	reHonorarios     = regexp.MustCompile(`(?i)R\$\s*([0-9.,]+)[^;,]*honor[áa]rios\s*advocat[íi]cios`)
)

// Parser extrai publicações de interesse do texto bruto de um caderno do DJE.
// Só entram publicações de RPV com pagamento pelo INSS.
type Parser struct{}

// NewParser cria um novo parser de cadernos do DJE
func NewParser() *Parser {
	return &Parser{}
}

// Parse recorta o texto em blocos de processo e converte os blocos relevantes
// em publicações com status inicial "nova". Blocos sem número de processo
// identificável são descartados.
func (p *Parser) Parse(texto string, dataDisponibilizacao time.Time) []*model.Publicacao {
	var publicacoes []*model.Publicacao

	for _, bloco := range reBloco.FindAllString(texto, -1) {
		bloco = normalizarEspacos(bloco)
		if !strings.Contains(bloco, "RPV") || !strings.Contains(bloco, "pagamento pelo INSS") {
			continue
		}

		numero := reNumeroProcesso.FindString(bloco)
		if numero == "" {
			continue
		}

		data := dataDisponibilizacao
		pub := &model.Publicacao{
			NumeroProcesso:       numero,
			DataDisponibilizacao: &data,
			Autor:                extrairAutor(bloco),
			Reu:                  model.ReuPadrao,
			Advogado:             extrairAdvogados(bloco),
			ConteudoCompleto:     bloco,
			Status:               model.StatusNova,
			UsuarioCriacao:       "Sistema",
		}

		pub.ValorPrincipal, pub.ValorJurosMoratorios, pub.HonorariosAdvocaticios = extrairValores(bloco)

		publicacoes = append(publicacoes, pub)
	}

	return publicacoes
}

// extrairAutor devolve o nome que antecede o marcador "- Vistos" no bloco.
// No caderno o cabeçalho tem a forma "Processo <numero> - <classe> - <assunto>
// - <autor> - Vistos...".
func extrairAutor(bloco string) string {
	idx := strings.Index(bloco, "- Vistos")
	if idx < 0 {
		return ""
	}

	cabecalho := bloco[:idx]
	partes := strings.Split(cabecalho, " - ")
	if len(partes) < 2 {
		return ""
	}

	autor := normalizarEspacos(partes[len(partes)-1])
	autor = strings.Trim(autor, "- ")
	return autor
}

// extrairAdvogados lê a cláusula "ADV: nome (OAB ...)" do bloco. No caderno,
// vários advogados aparecem como nomes separados por vírgula ou " E " antes
// de uma única inscrição na OAB; cada nome recebe a inscrição e as entradas
// são unidas com "; ".
func extrairAdvogados(bloco string) string {
	m := reAdvogado.FindStringSubmatch(bloco)
	if m == nil {
		return ""
	}
	oab := m[2]

	var advogados []string
	for _, parte := range reSepNomes.Split(m[1], -1) {
		nome := normalizarEspacos(parte)
		if len(nome) <= 3 {
			continue
		}
		entrada := nome + " " + oab
		if !contem(advogados, entrada) {
			advogados = append(advogados, entrada)
		}
	}
	return strings.Join(advogados, "; ")
}

// extrairValores procura os três valores homologados na sentença. A busca é
// feita primeiro na seção entre "homologo os cálculos" e "Os valores"; quando
// a seção não é encontrada, o bloco inteiro serve de reserva.
func extrairValores(bloco string) (principal, juros, honorarios *float64) {
	escopo := bloco
	if m := reSecaoValores.FindStringSubmatch(bloco); m != nil {
		escopo = m[1]
	}

	principal = valorMonetario(reValorPrincipal, escopo, bloco)

	if !reSemJuros.MatchString(escopo) && !reSemJuros.MatchString(bloco) {
		juros = valorMonetario(reValorJuros, escopo, bloco)
	}

	honorarios = valorMonetario(reHonorarios, escopo, bloco)
	return principal, juros, honorarios
}

// valorMonetario aplica a expressão na seção de valores e, se necessário, no
// texto completo, convertendo o montante brasileiro para float.
func valorMonetario(re *regexp.Regexp, escopo, completo string) *float64 {
	for _, texto := range []string{escopo, completo} {
		m := re.FindStringSubmatch(texto)
		if m == nil {
			continue
		}
		if v, ok := parseValorBR(m[1]); ok {
			return &v
		}
	}
	return nil
}

// parseValorBR converte valores como "1.234,56" para float64
func parseValorBR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(strings.Trim(s, "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizarEspacos(s string) string {
	return strings.TrimSpace(reEspacos.ReplaceAllString(s, " "))
}

func contem(lista []string, valor string) bool {
	for _, item := range lista {
		if item == valor {
			return true
		}
	}
	return false
}
