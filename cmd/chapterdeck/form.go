package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/publish"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

var formLog string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Interactive form: pick the leader and month, generate and publish the deck",
	Args:  cobra.NoArgs,
	RunE:  runForm,
}

func init() {
	formCmd.Flags().StringVar(&formLog, "log", "chapterdeck.log", "log file while the form is open")
}

func runForm(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the form; logs go to a file
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{formLog}
	cfg.ErrorOutputPaths = []string{formLog}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	fileLogger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer fileLogger.Sync()
	logger = fileLogger

	ctx, cancel := signalContext()
	defer cancel()

	months := source.ListMonths(settings.DataRoot)
	defaultMonth := settings.Month
	if defaultMonth == "" {
		defaultMonth = source.LatestMonth(settings.DataRoot)
	}

	base, err := runOptions()
	if err != nil {
		return err
	}
	gen := func(name, month string) tea.Cmd {
		return func() tea.Msg {
			s := settings
			s.ChapterLeader = name
			if month != "" {
				s.Month = month
				s.DataDir = ""
			}
			run := s.Options()
			run.Logger, run.Sections = logger, base.Sections

			if _, err := generate(ctx, run); err != nil {
				return generatedMsg{err: err}
			}
			dest := s.PublishDir()
			copied, err := publish.CopyDecks(run.OutputDir, dest, logger)
			return generatedMsg{copied: copied, dest: dest, err: err}
		}
	}

	m := newFormModel(settings.ChapterLeader, months, defaultMonth, gen)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

type focusField int

const (
	focusLeader focusField = iota
	focusDefault
	focusMonth
	focusGenerate
	focusCount
)

type statusKind int

const (
	statusNone statusKind = iota
	statusBusy
	statusOK
	statusWarn
	statusError
)

// generatedMsg reports the end of a background generation.
type generatedMsg struct {
	copied []string
	dest   string
	err    error
}

// formModel is the operator form.
type formModel struct {
	leader  textinput.Model
	spinner spinner.Model

	months       []string
	defaultMonth string
	useDefault   bool
	monthIdx     int

	focus   focusField
	running bool
	status  string
	kind    statusKind

	generate func(leader, month string) tea.Cmd
}

func newFormModel(leader string, months []string, defaultMonth string, generate func(leader, month string) tea.Cmd) formModel {
	ti := textinput.New()
	ti.Placeholder = "Nombre completo"
	ti.CharLimit = 80
	ti.Width = 40
	ti.SetValue(leader)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := formModel{
		leader:       ti,
		spinner:      sp,
		months:       months,
		defaultMonth: defaultMonth,
		useDefault:   true,
		generate:     generate,
	}
	for i, mo := range months {
		if mo == defaultMonth {
			m.monthIdx = i
		}
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.running {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.running {
			return m, nil
		}
		return m.handleKey(msg)

	case generatedMsg:
		m.running = false
		switch {
		case msg.err != nil:
			m.kind, m.status = statusError, fmt.Sprintf("Error al generar presentación: %v", msg.err)
		case len(msg.copied) > 0:
			m.kind, m.status = statusOK, fmt.Sprintf("Presentación copiada a: %s", msg.dest)
		default:
			m.kind, m.status = statusWarn, "No se encontró ningún .pptx para copiar. Verifica la generación."
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.leader, cmd = m.leader.Update(msg)
	return m, cmd
}

func (m formModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	case "enter":
		switch m.focus {
		case focusDefault:
			m.useDefault = !m.useDefault
			return m, nil
		case focusMonth:
			return m.moveFocus(1), nil
		}
		return m.start()
	case " ":
		if m.focus == focusDefault {
			m.useDefault = !m.useDefault
			return m, nil
		}
	case "left", "right":
		if m.focus == focusMonth && len(m.months) > 0 {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			m.monthIdx = (m.monthIdx + step + len(m.months)) % len(m.months)
			return m, nil
		}
	}

	if m.focus != focusLeader {
		return m, nil
	}
	var cmd tea.Cmd
	m.leader, cmd = m.leader.Update(msg)
	return m, cmd
}

// moveFocus steps through the fields, skipping the month selector while the
// default month is in use.
func (m formModel) moveFocus(step int) formModel {
	for {
		m.focus = (m.focus + focusField(step) + focusCount) % focusCount
		if m.focus != focusMonth || (!m.useDefault && len(m.months) > 0) {
			break
		}
	}
	if m.focus == focusLeader {
		m.leader.Focus()
	} else {
		m.leader.Blur()
	}
	return m
}

// selectedMonth is the month folder to generate for.
func (m formModel) selectedMonth() string {
	if m.useDefault || len(m.months) == 0 {
		return m.defaultMonth
	}
	return m.months[m.monthIdx]
}

func (m formModel) start() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.leader.Value())
	if name == "" {
		m.kind, m.status = statusError, "Ingresa el nombre del Chapter Leader."
		return m, nil
	}
	month := m.selectedMonth()
	m.running = true
	m.kind = statusBusy
	m.status = fmt.Sprintf("Generando presentación de %s", name)
	if month != "" {
		m.status += fmt.Sprintf(" (%s)", month)
	}
	return m, tea.Batch(m.spinner.Tick, m.generate(name, month))
}

var (
	accentColor = lipgloss.Color("63")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
	frameStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))

	statusStyles = map[statusKind]lipgloss.Style{
		statusBusy:  lipgloss.NewStyle().Foreground(accentColor),
		statusOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		statusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		statusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generador de Presentaciones"))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Nombre del Chapter Leader:"))
	b.WriteString("\n")
	b.WriteString(m.leader.View())
	b.WriteString("\n\n")

	check := "[ ]"
	if m.useDefault {
		check = "[x]"
	}
	def := m.defaultMonth
	if def == "" {
		def = "carpeta de datos"
	}
	b.WriteString(m.field(focusDefault, fmt.Sprintf("%s Usar carpeta por defecto (%s)", check, def)))
	b.WriteString("\n")

	if !m.useDefault && len(m.months) > 0 {
		b.WriteString(m.field(focusMonth, fmt.Sprintf("Selecciona el mes: ‹ %s ›", m.months[m.monthIdx])))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	button := buttonStyle
	if m.focus == focusGenerate {
		button = button.BorderForeground(accentColor).Foreground(accentColor)
	}
	b.WriteString(button.Render("Generar presentación"))
	b.WriteString("\n")

	if m.status != "" {
		line := m.status
		if m.running {
			line = m.spinner.View() + " " + line
		}
		b.WriteString(statusStyles[m.kind].Render(line))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab: campo · espacio: marcar · ←/→: mes · enter: generar · esc: salir"))
	return frameStyle.Render(b.String())
}

func (m formModel) field(f focusField, text string) string {
	if m.focus == f {
		return focusedStyle.Render("› " + text)
	}
	return "  " + text
}
