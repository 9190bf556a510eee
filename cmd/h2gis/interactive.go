package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h2gis/h2gis-go/bridge"
	"github.com/h2gis/h2gis-go/rows"
	"github.com/h2gis/h2gis-go/session"
)

const maxDisplayRows = 50

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type shellState int

const (
	stateLoading shellState = iota
	stateInput
	stateShowResult
)

type shellModel struct {
	db   string
	lib  string
	user string
	pass string

	br     *bridge.Bridge
	sess   *session.Session
	tables []session.TableInfo

	input  textinput.Model
	result string
	err    error
	state  shellState
}

type openedMsg struct {
	err    error
	br     *bridge.Bridge
	sess   *session.Session
	tables []session.TableInfo
}

type queryResultMsg struct {
	err    error
	result string
}

func newShellModel(db, lib, user, pass string) *shellModel {
	ti := textinput.New()
	ti.Prompt = "sql> "
	ti.Placeholder = "SELECT ..."
	ti.Width = 80
	ti.Focus()

	return &shellModel{
		db:    db,
		lib:   lib,
		user:  user,
		pass:  pass,
		input: ti,
		state: stateLoading,
	}
}

func (m *shellModel) Init() tea.Cmd {
	return m.openSession
}

func (m *shellModel) openSession() tea.Msg {
	br := bridge.New(bridge.Config{LibraryPath: m.lib})

	var opts []session.Option
	if m.user != "" {
		opts = append(opts, session.WithCredentials(m.user, m.pass))
	}
	sess, err := session.Open(br, m.db, opts...)
	if err != nil {
		br.RequestShutdown()
		return openedMsg{err: err}
	}

	tables, err := sess.Metadata()
	if err != nil {
		sess.Close()
		return openedMsg{err: err}
	}
	return openedMsg{br: br, sess: sess, tables: tables}
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.sess != nil {
				m.sess.Close()
			}
			return m, tea.Quit

		case "enter":
			switch m.state {
			case stateInput:
				if strings.TrimSpace(m.input.Value()) == "" {
					return m, nil
				}
				return m, m.runStatement

			case stateShowResult:
				m.state = stateInput
				m.result = ""
				m.err = nil
				m.input.SetValue("")
				m.input.Focus()
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateInput
				m.result = ""
				m.err = nil
				m.input.Focus()
			}
		}

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateShowResult
			return m, nil
		}
		m.br = msg.br
		m.sess = msg.sess
		m.tables = msg.tables
		m.state = stateInput

	case queryResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *shellModel) runStatement() tea.Msg {
	sql := strings.TrimSpace(m.input.Value())

	if !isQuery(sql) {
		if err := m.sess.Exec(sql); err != nil {
			return queryResultMsg{err: err}
		}
		return queryResultMsg{result: "OK"}
	}

	rs, err := m.sess.Query(sql)
	if err != nil {
		return queryResultMsg{err: err}
	}
	defer rs.Close()

	var b strings.Builder
	count := 0
	for {
		row, err := rs.Next()
		if err != nil {
			if errors.Is(err, rows.EndOfStream()) {
				break
			}
			return queryResultMsg{err: err}
		}
		if count == 0 {
			b.WriteString(strings.Join(row.Columns, " | "))
			b.WriteString("\n")
		}
		if count < maxDisplayRows {
			b.WriteString(formatRow(row))
			b.WriteString("\n")
		}
		count++
	}
	if count > maxDisplayRows {
		fmt.Fprintf(&b, "... %d more rows\n", count-maxDisplayRows)
	}
	fmt.Fprintf(&b, "(%d rows)", count)
	return queryResultMsg{result: b.String()}
}

func (m *shellModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("H2GIS Shell"))
	b.WriteString(" ")
	b.WriteString(m.db)
	b.WriteString("\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString("Connecting...")

	case stateInput:
		if len(m.tables) > 0 {
			b.WriteString("Tables:\n")
			for _, tab := range m.tables {
				b.WriteString("  ")
				b.WriteString(tableStyle.Render(tab.Name))
				if tab.GeometryColumn != "" {
					b.WriteString(" ")
					b.WriteString(typeStyle.Render(
						fmt.Sprintf("[%s %s, SRID %d]", tab.GeometryColumn, tab.GeometryType, tab.SRID)))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • ctrl+c quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive(db, lib, user, pass string) error {
	p := tea.NewProgram(newShellModel(db, lib, user, pass), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
