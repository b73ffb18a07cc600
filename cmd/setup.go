package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"escola/internal/db"
	"escola/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const defaultAdminPassword = "admin123"

// SetupSettings records the first-run choices.
type SetupSettings struct {
	Completed bool `json:"completed"`
	DemoData  bool `json:"demo_data"`
}

type setupResult struct {
	settings      SetupSettings
	adminPassword string
}

func setupPath(configDir string) string {
	return filepath.Join(configDir, "setup.json")
}

func loadSetupSettings(configDir string) (SetupSettings, error) {
	data, err := os.ReadFile(setupPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return SetupSettings{}, nil
		}
		return SetupSettings{}, err
	}

	var settings SetupSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return SetupSettings{}, err
	}
	return settings, nil
}

func saveSetupSettings(configDir string, settings SetupSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(setupPath(configDir), data, 0644)
}

func shouldRunSetup(settings SetupSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// applySetup creates the admin account, plus the demo data when chosen.
func applySetup(database *sql.DB, result setupResult, logger *zap.Logger) error {
	var err error
	if result.settings.DemoData {
		_, err = db.Seed(database, result.adminPassword, logger)
	} else {
		_, err = db.SeedAdmin(database, result.adminPassword, logger)
	}
	if err != nil {
		return fmt.Errorf("failed to apply setup: %w", err)
	}
	return nil
}

type setupStep int

const (
	stepDemo setupStep = iota
	stepPassword
	stepDone
)

type setupModel struct {
	step     setupStep
	demo     bool
	password textinput.Model
	result   setupResult
	status   string
	width    int
	height   int
}

var (
	suColorMuted   = lipgloss.Color("#7F8AA3")
	suColorText    = lipgloss.Color("#DCE2EF")
	suColorAccent  = lipgloss.Color("#7AA2D6")
	suColorDanger  = lipgloss.Color("#f38ba8")
	suColorWarning = lipgloss.Color("#f9e2af")
	suColorInfo    = lipgloss.Color("#89dceb")
	suColorSuccess = lipgloss.Color("#a6e3a1")

	suTitleStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true)

	suHeaderStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(suColorMuted)

	suTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(suColorMuted)

	suTabInactive = lipgloss.NewStyle().
			Foreground(suColorMuted).
			Padding(0, 2)

	suTabActive = lipgloss.NewStyle().
			Foreground(suColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	suPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(suColorMuted).
			Padding(1, 2)

	suInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(suColorAccent).
			Padding(0, 1)

	suLabelStyle = lipgloss.NewStyle().
			Foreground(suColorAccent).
			Bold(true)

	suMutedStyle = lipgloss.NewStyle().
			Foreground(suColorMuted)

	suOptionStyle = lipgloss.NewStyle().
			Foreground(suColorText)

	suOptionSelected = lipgloss.NewStyle().
				Foreground(suColorAccent).
				Bold(true)

	suWarnStyle = lipgloss.NewStyle().
			Foreground(suColorDanger)

	suFooterStyle = lipgloss.NewStyle().
			Foreground(suColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(suColorMuted)

	suLevelColors = map[util.Level]lipgloss.Color{
		util.LevelDanger:  suColorDanger,
		util.LevelWarning: suColorWarning,
		util.LevelInfo:    suColorInfo,
		util.LevelSuccess: suColorSuccess,
	}
)

func newSetupModel() setupModel {
	in := textinput.New()
	in.Placeholder = "senha do administrador (vazio = " + defaultAdminPassword + ")"
	in.CharLimit = 72
	in.Prompt = "senha> "
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.TextStyle = lipgloss.NewStyle().Foreground(suColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(suColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(suColorText).Background(suColorAccent)
	in.Focus()

	return setupModel{
		step:     stepDemo,
		demo:     true,
		password: in,
	}
}

func (m setupModel) Init() tea.Cmd { return nil }

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.cancel()
		}
		switch m.step {
		case stepDemo:
			switch msg.String() {
			case "y", "Y":
				m.demo = true
				m.step = stepPassword
			case "n", "N":
				m.demo = false
				m.step = stepPassword
			case "up", "k", "left", "h":
				m.demo = true
			case "down", "j", "right", "l":
				m.demo = false
			case "enter":
				// Enter commits the currently selected option
				m.step = stepPassword
			case "q":
				return m.cancel()
			}
			return m, nil
		case stepPassword:
			switch msg.String() {
			case "enter":
				password := m.password.Value()
				m.result.adminPassword = password
				m.result.settings = SetupSettings{Completed: true, DemoData: m.demo}
				if password == "" {
					m.status = "Senha padrão do administrador: " + defaultAdminPassword + ". Troque-a assim que possível."
				} else {
					m.status = "Senha do administrador definida."
				}
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.step = stepDemo
				return m, nil
			case "ctrl+p":
				if m.password.EchoMode == textinput.EchoPassword {
					m.password.EchoMode = textinput.EchoNormal
				} else {
					m.password.EchoMode = textinput.EchoPassword
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.password, cmd = m.password.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m setupModel) cancel() (tea.Model, tea.Cmd) {
	m.result = setupResult{}
	m.status = "Configuração cancelada."
	m.step = stepDone
	return m, tea.Quit
}

func (m setupModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(8, height-6)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(suColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m setupModel) renderHeader(width int) string {
	left := "  " + suTitleStyle.Render("escola") + " " + suMutedStyle.Render("› Configuração inicial")
	right := suMutedStyle.Render(util.FormatDay(time.Now())) + "  "
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return suHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m setupModel) renderTabs(width int) string {
	demoTab := suTabInactive.Render("Dados")
	passwordTab := suTabInactive.Render("Administrador")
	if m.step == stepDemo {
		demoTab = suTabActive.Render("Dados")
	}
	if m.step == stepPassword {
		passwordTab = suTabActive.Render("Administrador")
	}
	return suTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", demoTab, passwordTab))
}

func (m setupModel) renderFooter(width int) string {
	switch m.step {
	case stepDemo:
		return suFooterStyle.Width(width).Render("↑↓/jk navegar  y/n enter confirmar  q cancelar")
	case stepPassword:
		return suFooterStyle.Width(width).Render("enter salvar  ctrl+p mostrar senha  esc voltar")
	default:
		return suFooterStyle.Width(width).Render("Configuração concluída")
	}
}

func renderSetupStrength(pw string) string {
	if pw == "" {
		return ""
	}
	s := util.PasswordStrength(pw)
	return lipgloss.NewStyle().Foreground(suLevelColors[s.Level()]).Render("Força: " + s.Label())
}

func (m setupModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepDemo:
		question := suLabelStyle.Render("Carregar dados de demonstração?")
		on := "Sim: professores, alunos, disciplinas e notícias de exemplo"
		off := "Não: apenas a conta do administrador"

		var onDisplay, offDisplay string
		if m.demo {
			onDisplay = "  " + suOptionSelected.Render("→ "+on)
			offDisplay = "    " + suOptionStyle.Render(off)
		} else {
			onDisplay = "    " + suOptionStyle.Render(on)
			offDisplay = "  " + suOptionSelected.Render("→ "+off)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			onDisplay,
			offDisplay,
			"",
			suMutedStyle.Render("Use as setas ou j/k, y/n ou Enter para confirmar"),
			suMutedStyle.Render("Depois é possível rodar  escola seed  em um banco vazio"),
		)
	case stepPassword:
		input := suInputStyle.Width(max(30, cardWidth-14)).Render(m.password.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			suLabelStyle.Render("Senha do administrador (usuário admin)"),
			"",
			input,
			renderSetupStrength(m.password.Value()),
			"",
			suMutedStyle.Render("Deixe em branco para usar a senha padrão."),
		)
	default:
		msg := suMutedStyle.Render(m.status)
		if m.result.adminPassword == "" {
			msg = suWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, suLabelStyle.Render("Configuração concluída"), "", msg)
	}

	card := suPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runSetup() (setupResult, error) {
	prog := tea.NewProgram(newSetupModel(), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return setupResult{}, fmt.Errorf("setup tui failed: %w", err)
	}
	m, ok := finalModel.(setupModel)
	if !ok {
		return setupResult{}, fmt.Errorf("unexpected setup model type")
	}
	return m.result, nil
}
