package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/service"
)

// Model is the Bubble Tea model for the chat front end: an append-only
// transcript above a single question input. Files dropped into the raw
// directory are picked up with the :build command.
type Model struct {
	svc        *service.Service
	rawDir     string
	topK       int
	input      textinput.Model
	viewport   viewport.Model
	transcript []entry
	status     string
	ready      bool
	waiting    bool
}

type entry struct {
	role string // "you" or "ai"
	text string
}

type answerMsg struct {
	answer  string
	sources int
	err     error
}

type buildMsg struct {
	report *service.BuildReport
	err    error
}

// New creates the chat model.
func New(svc *service.Service, rawDir string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question (:build to re-index, ctrl+c to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		svc:      svc,
		rawDir:   rawDir,
		topK:     topK,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Ready. Drop files into %s and type :build to index them.", rawDir),
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.Reset()
			if q == ":build" {
				m.status = "Indexing " + m.rawDir + "..."
				return m, m.buildCmd()
			}
			m.transcript = append(m.transcript, entry{role: "you", text: q})
			m.waiting = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.answerCmd(q)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript, entry{role: "ai", text: "Error: " + msg.err.Error()})
			m.status = "Query failed."
		} else {
			m.transcript = append(m.transcript, entry{role: "ai", text: msg.answer})
			m.status = fmt.Sprintf("Answered from %d retrieved chunk(s).", msg.sources)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case buildMsg:
		if msg.err != nil {
			m.status = "Build: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Indexed %d file(s): %d chunk(s), %d new.",
				msg.report.FilesLoaded, msg.report.Chunks, msg.report.Inserted)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("ragchat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) answerCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, results, err := m.svc.Answer(context.Background(), question, m.topK)
		return answerMsg{answer: answer, sources: len(results), err: err}
	}
}

func (m Model) buildCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.svc.Build(context.Background(), m.rawDir)
		return buildMsg{report: report, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return fmt.Sprintf("Ask something about your documents.\nNew files go into %s; :build picks them up.", m.rawDir)
	}
	var sb strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch e.role {
		case "you":
			sb.WriteString(youStyle.Render("You: ") + e.text)
		default:
			sb.WriteString(aiStyle.Render("AI:  ") + e.text)
		}
	}
	return sb.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	youStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	aiStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
