package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/sales-game/internal/engine"
	"github.com/tatianab/sales-game/internal/models"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateResult
	stateError
)

type model struct {
	state     sessionState
	engine    *engine.Engine
	session   *models.GameSession
	result    *models.SalesResult
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
	thinking  bool
}

var (
	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	customerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF87")).
			Bold(true)

	lostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

func NewModel(eng *engine.Engine) model {
	ti := textinput.New()
	ti.Placeholder = "Make your pitch..."
	ti.Focus()
	ti.CharLimit = 280
	ti.Width = 40

	return model{
		state:     stateLoading,
		engine:    eng,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startGame())
}

type gameStartedMsg struct {
	session *models.GameSession
}

type turnProcessedMsg struct {
	response models.CustomerResponse
	err      error
}

type gameEndedMsg struct {
	result models.SalesResult
	err    error
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateResult {
				m.state = stateLoading
				m.gameLog = ""
				m.session = nil
				m.result = nil
				return m, m.startGame()
			}
			if m.state == statePlaying && !m.thinking {
				pitch := m.textInput.Value()
				if pitch == "" {
					return m, nil
				}
				m.textInput.Reset()

				if pitch == "/quit" {
					return m, tea.Quit
				}
				if pitch == "/restart" {
					m.state = stateLoading
					m.gameLog = ""
					m.session = nil
					return m, m.startGame()
				}
				if pitch == "/leave" {
					return m, m.endGame()
				}

				logWidth := int(float64(m.width) * 0.75)
				styledPitch := playerStyle.Width(logWidth).Render("> " + pitch)
				m.gameLog += "\n\n" + styledPitch + "\n\n"
				m.viewport.SetContent(m.gameLog)
				m.viewport.GotoBottom()
				m.thinking = true
				return m, m.processTurn(pitch)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.75)
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case gameStartedMsg:
		m.session = msg.session
		m.state = statePlaying
		logWidth := int(float64(m.width) * 0.75)
		header := customerStyle.Bold(true).Render("Customer: " + m.session.Customer.Name)
		description := customerStyle.Width(logWidth).Render(m.session.Customer.Description)
		m.gameLog = header + "\n\n" + description + "\n\n"
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(logWidth, m.height-6)
		}
		m.viewport.SetContent(m.gameLog)
		m.textInput.Placeholder = "Make your pitch..."
		m.textInput.Reset()
		return m, nil

	case turnProcessedMsg:
		m.thinking = false
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		logWidth := int(float64(m.width) * 0.75)
		styledReply := customerStyle.Width(logWidth).Render(msg.response.Message)
		m.gameLog += styledReply + "\n\n"
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()
		if m.session.Ended() {
			return m, m.endGame()
		}
		return m, nil

	case gameEndedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = &msg.result
		m.state = stateResult
		m.saveTranscript(msg.result)
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Finding you something to sell... please wait.\n"

	case statePlaying:
		logView := m.viewport.View()
		panelView := m.renderPanel()

		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			logView,
			panelView,
		)

		input := m.textInput.View()
		if m.thinking {
			input = helpStyle.Render("The customer is thinking...")
		}
		help := helpStyle.Render("Commands: /leave, /restart, /quit, or just type your pitch.")

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+input,
			"\n"+help,
		)

	case stateResult:
		headline := lostStyle.Render("NO SALE")
		if m.result.Success {
			headline = wonStyle.Render("SOLD!")
		}
		s = fmt.Sprintf(
			"%s\n\n%s\n%s\n\nMoney earned: $%v\n\n%s",
			headline,
			m.result.FinalMessage,
			m.result.Reason,
			m.result.MoneyEarned,
			helpStyle.Render("Press Enter to play again, Esc to quit."),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderPanel() string {
	if m.session == nil {
		return ""
	}

	customer := titleStyle.Render("CUSTOMER") + "\n" +
		m.session.Customer.Name + "\n" +
		m.session.Customer.Description + "\n\n"

	product := titleStyle.Render("PRODUCT") + "\n" +
		fmt.Sprintf("%s\n$%v\n\n", m.session.Product.Name, m.session.Product.Price)

	patience := titleStyle.Render("PATIENCE") + "\n" +
		fmt.Sprintf("%d turns left\n\n", m.session.TurnsRemaining)

	wallet := titleStyle.Render("WALLET") + "\n" +
		fmt.Sprintf("$%v", m.session.PlayerMoney)

	content := customer + product + patience + wallet

	panelWidth := int(float64(m.width) * 0.23)
	return panelStyle.Width(panelWidth).Height(m.viewport.Height).Render(content)
}

func (m model) startGame() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx := context.Background()
		product, err := eng.GenerateRandomProduct(ctx)
		if err != nil {
			return errMsg{err}
		}
		session, err := eng.StartGame(ctx, product)
		if err != nil {
			return errMsg{err}
		}
		return gameStartedMsg{session}
	}
}

func (m model) processTurn(pitch string) tea.Cmd {
	eng := m.engine
	sessionID := m.session.SessionID
	return func() tea.Msg {
		response, err := eng.ProcessPlayerMessage(context.Background(), sessionID, pitch)
		return turnProcessedMsg{response, err}
	}
}

func (m model) endGame() tea.Cmd {
	eng := m.engine
	sessionID := m.session.SessionID
	return func() tea.Msg {
		result, err := eng.EndGame(sessionID)
		return gameEndedMsg{result, err}
	}
}

func (m model) saveTranscript(result models.SalesResult) {
	if m.session == nil {
		return
	}
	name := time.Now().Format("2006-01-02-150405")
	_ = m.session.Transcript(result).Save(name)
}

func Run(eng *engine.Engine) error {
	p := tea.NewProgram(NewModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
