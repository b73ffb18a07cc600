package ui

import (
	"strings"

	"escola/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeSearch:
		return renderSearchHelp(width)
	case model.ModeConfirm:
		return renderHelpLine([]string{helpKey("y", "confirmar"), helpKey("n/esc", "cancelar")}, width)
	}

	switch screen {
	case model.ScreenLogin:
		return renderLoginHelp(width)
	case model.ScreenStudents:
		return renderStudentsHelp(width)
	case model.ScreenProfessors, model.ScreenSubjects, model.ScreenStudentArea:
		return renderTableHelp(width)
	case model.ScreenNews:
		return renderNewsHelp(width)
	case model.ScreenNewsDetail:
		return renderNewsDetailHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderLoginHelp(width int) string {
	keys := []string{
		helpKey("tab", "próximo campo"),
		helpKey("enter", "entrar"),
		helpKey("ctrl+p", "mostrar senha"),
		helpKey("ctrl+c", "sair"),
	}
	return renderHelpLine(keys, width)
}

func renderStudentsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navegar"),
		helpKey("tab", "coluna"),
		helpKey("s", "ordenar"),
		helpKey("/", "buscar"),
		helpKey("a", "novo"),
		helpKey("e", "editar"),
		helpKey("espaço", "marcar"),
		helpKey("d", "excluir"),
		helpKey("u/ctrl+r", "desfazer/refazer"),
	}
	return renderHelpLine(keys, width)
}

func renderTableHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navegar"),
		helpKey("tab", "coluna"),
		helpKey("s", "ordenar"),
		helpKey("c/C", "ocultar/mostrar col."),
		helpKey("/", "buscar"),
		helpKey("←/→", "abas"),
		helpKey("?", "ajuda"),
	}
	return renderHelpLine(keys, width)
}

func renderNewsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navegar"),
		helpKey("s", "ordenar"),
		helpKey("/", "buscar"),
		helpKey("enter", "ler"),
		helpKey("a", "publicar"),
		helpKey("d", "excluir"),
		helpKey("←/→", "abas"),
	}
	return renderHelpLine(keys, width)
}

func renderNewsDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "voltar"),
		helpKey("d", "excluir"),
	}
	return renderHelpLine(keys, width)
}

func renderSearchHelp(width int) string {
	keys := []string{
		helpKey("digite", "filtrar"),
		helpKey("enter", "manter busca"),
		helpKey("esc", "limpar busca"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "próximo campo"),
		helpKey("shift+tab", "campo anterior"),
		helpKey("ctrl+s", "salvar"),
		helpKey("esc", "cancelar"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("←/→", "abas"),
		helpKey("r", "recarregar"),
		helpKey("ctrl+l", "sair da conta"),
		helpKey("q", "sair"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navegação"),
		helpSection([]helpItem{
			{"j / ↓", "Desce"},
			{"k / ↑", "Sobe"},
			{"← / →", "Aba anterior / próxima"},
			{"enter / l", "Abrir"},
			{"h / esc / b", "Voltar"},
			{"gg", "Ir ao topo"},
			{"G", "Ir ao fim"},
			{"ctrl+d / ctrl+u", "Meia página abaixo / acima"},
			{"r", "Recarregar"},
			{"ctrl+l", "Sair da conta"},
			{"q", "Sair"},
			{"?", "Mostrar / ocultar ajuda"},
		}),
		titleSection("Tabelas"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Coluna ativa"},
			{"s", "Ordenar pela coluna ativa (de novo inverte)"},
			{"c / C", "Ocultar coluna / mostrar todas"},
			{"/", "Buscar (filtra enquanto digita)"},
			{"espaço", "Marcar linha"},
		}),
		titleSection("Alunos"),
		helpSection([]helpItem{
			{"a", "Cadastrar aluno"},
			{"e", "Editar aluno"},
			{"d", "Excluir marcados ou o selecionado (admin)"},
			{"u / ctrl+r", "Desfazer / refazer"},
		}),
		titleSection("Notícias"),
		helpSection([]helpItem{
			{"a", "Publicar notícia"},
			{"enter", "Ler notícia"},
			{"d", "Excluir notícia (admin)"},
		}),
		titleSection("Formulários"),
		helpSection([]helpItem{
			{"tab", "Próximo campo"},
			{"shift+tab", "Campo anterior"},
			{"ctrl+p", "Mostrar / ocultar senha"},
			{"espaço", "Alternar caixa de seleção"},
			{"ctrl+s", "Salvar"},
			{"esc", "Cancelar"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Ajuda"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("fechar ajuda")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
