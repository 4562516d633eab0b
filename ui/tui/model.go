package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/tutoria/core/tutor"
	"github.com/trezcool/tutoria/ui/views"
)

const chromeHeight = 6 // tab bar, status line, input and help

var (
	errorStyle    = lipgloss.NewStyle().Foreground(views.Destructive).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(views.Primary).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(views.Muted)
)

type Model struct {
	api API
	ctx context.Context

	width, height int
	active        int
	content       map[int]string
	loading       bool
	err           error

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// tutor tab
	students   []tutor.Student
	selected   int
	transcript map[int][]string // rendered exchanges per alumno
	pending    map[int]string   // questions waiting for recommendations to be generated
}

func New(ctx context.Context, api API) Model {
	ti := textinput.New()
	ti.Placeholder = "Pregunte sobre el alumno seleccionado (Enter para enviar, Esc para salir del campo)"
	ti.Prompt = "│ "
	ti.CharLimit = 2000
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:        api,
		ctx:        ctx,
		width:      100,
		height:     30,
		content:    make(map[int]string),
		loading:    true,
		viewport:   viewport.New(100, 30-chromeHeight),
		input:      ti,
		spinner:    sp,
		transcript: make(map[int][]string),
		pending:    make(map[int]string),
	}
}

// Run starts the dashboard in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, api API) error {
	_, err := tea.NewProgram(New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.active))
}

func (m Model) contentWidth() int {
	if m.width < 20 {
		return 20
	}
	return m.width - 2
}

func (m *Model) startLoading() tea.Cmd {
	m.loading = true
	m.err = nil
	return m.load(m.active)
}

func (m Model) selectedStudent() (tutor.Student, bool) {
	if m.selected < 0 || m.selected >= len(m.students) {
		return tutor.Student{}, false
	}
	return m.students[m.selected], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "right", "tab", "l":
			return m.switchTab((m.active + 1) % len(views.Tabs))
		case "left", "shift+tab", "h":
			return m.switchTab((m.active + len(views.Tabs) - 1) % len(views.Tabs))
		case "r":
			cmd := m.startLoading()
			return m, cmd
		}
		if m.active == tabTutor {
			if next, cmd, ok := m.updateTutorKeys(msg); ok {
				return next, cmd
			}
		}

	case loadedMsg:
		if msg.tab == tabTutor {
			m.students = msg.students
			if m.selected >= len(m.students) {
				m.selected = 0
			}
		}
		m.content[msg.tab] = msg.content
		if msg.tab == m.active {
			m.loading = false
			m.err = nil
		}
		m.refreshViewport()
		return m, nil

	case errMsg:
		m.loading = false
		delete(m.pending, msg.alumnoID)
		m.err = msg.err
		m.refreshViewport()
		return m, nil

	case recommendationsMsg:
		m.loading = false
		m.transcript[msg.alumnoID] = append(m.transcript[msg.alumnoID], views.Recommendations(msg.rec, m.contentWidth()))
		q, ok := m.pending[msg.alumnoID]
		delete(m.pending, msg.alumnoID)
		if ok && msg.rec.Success {
			m.loading = true
			cmds = append(cmds, m.ask(msg.alumnoID, q, true))
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, tea.Batch(cmds...)

	case chatReplyMsg:
		m.loading = false
		if !msg.reply.Success {
			if !msg.retry && msg.reply.MissingContext() {
				// no AI context yet: build it, then ask again
				m.pending[msg.alumnoID] = msg.question
				m.loading = true
				return m, m.recommend(msg.alumnoID)
			}
			reason := "sin respuesta"
			if msg.reply.Error != nil {
				reason = *msg.reply.Error
			}
			m.err = fmt.Errorf("%s", reason)
			m.refreshViewport()
			return m, nil
		}
		m.transcript[msg.alumnoID] = append(m.transcript[msg.alumnoID],
			selectedStyle.Render("Tú: ")+msg.question+"\n"+views.Markdown(msg.reply.Response, m.contentWidth()))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) switchTab(tab int) (tea.Model, tea.Cmd) {
	m.active = tab
	m.err = nil
	m.viewport.GotoTop()
	if _, ok := m.content[tab]; ok {
		m.loading = false
		m.refreshViewport()
		return m, nil
	}
	cmd := m.startLoading()
	m.refreshViewport()
	return m, cmd
}

// updateTutorKeys handles the keys specific to the tutor tab; ok is false when the key is not one of them.
func (m Model) updateTutorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.students)-1 {
			m.selected++
		}
	case "g":
		s, ok := m.selectedStudent()
		if !ok {
			return m, nil, true
		}
		m.loading = true
		m.err = nil
		return m, m.recommend(s.AlumnoID), true
	case "i", "enter":
		if _, ok := m.selectedStudent(); !ok {
			return m, nil, true
		}
		cmd := m.input.Focus()
		return m, cmd, true
	default:
		return m, nil, false
	}
	m.refreshViewport()
	return m, nil, true
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		s, ok := m.selectedStudent()
		if q == "" || !ok || m.loading {
			return m, nil
		}
		m.input.SetValue("")
		m.loading = true
		m.err = nil
		return m, m.ask(s.AlumnoID, q, false)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.body())
}

func (m Model) body() string {
	if m.active != tabTutor {
		return m.content[m.active]
	}

	var sb strings.Builder
	if len(m.students) == 0 {
		sb.WriteString(mutedStyle.Render("No hay alumnos registrados"))
		return sb.String()
	}
	for i, s := range m.students {
		line := fmt.Sprintf("%3d  %s", s.AlumnoID, s.Nombre)
		if s.CI != nil {
			line += fmt.Sprintf("  (CI %d, %s)", s.CI.Valor, s.CI.Categoria)
		}
		if i == m.selected {
			sb.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	if s, ok := m.selectedStudent(); ok {
		for _, entry := range m.transcript[s.AlumnoID] {
			sb.WriteString("\n" + entry)
		}
	}
	return sb.String()
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(views.TabBar(m.active) + "\n")
	sb.WriteString(m.viewport.View() + "\n")

	switch {
	case m.loading:
		sb.WriteString(m.spinner.View() + " Cargando...\n")
	case m.err != nil:
		sb.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	default:
		sb.WriteString("\n")
	}

	help := []string{"←/→ pestañas", "r recargar", "q salir"}
	if m.active == tabTutor {
		sb.WriteString(m.input.View() + "\n")
		help = append([]string{"↑/↓ alumno", "g recomendaciones", "i preguntar"}, help...)
	}
	sb.WriteString(views.Help(help...))
	return sb.String()
}
