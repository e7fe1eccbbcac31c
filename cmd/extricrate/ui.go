// # cmd/extricrate/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"extricrate/internal/app"
	"extricrate/internal/resolver"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isCycle     bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list        list.Model
	crate       string
	cycles      [][]resolver.ModulePath
	lastUpdate  time.Time
	moduleCount int
	fileCount   int
}

type updateMsg struct {
	crate       string
	cycles      [][]resolver.ModulePath
	modules     []resolver.ModulePath
	deps        map[resolver.ModulePath][]resolver.ModulePath
	moduleCount int
	fileCount   int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.crate = msg.crate
		m.cycles = msg.cycles
		m.moduleCount = msg.moduleCount
		m.fileCount = msg.fileCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, c := range m.cycles {
			items = append(items, item{
				title:   "Circular Import",
				desc:    joinPaths(c, " -> "),
				isCycle: true,
			})
		}
		for _, mod := range msg.modules {
			items = append(items, item{
				title: string(mod),
				desc:  joinPaths(msg.deps[mod], ", "),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d modules",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.moduleCount))

	var summary string
	if len(m.cycles) == 0 {
		summary = successStyle.Render("✅ No import cycles")
	} else {
		summary = fmt.Sprintf("⚠️  %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", len(m.cycles))))
	}

	title := "Crate Module Monitor"
	if m.crate != "" {
		title = fmt.Sprintf("Crate Module Monitor: %s", m.crate)
	}
	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle(title), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Modules & Cycles"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func runUI(a *app.App) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	a.SetUpdateHandler(func(result *app.Result) {
		p.Send(resultToMsg(result))
	})

	if result := a.CurrentResult(); result != nil {
		go p.Send(resultToMsg(result))
	}

	_, err := p.Run()
	return err
}

func resultToMsg(result *app.Result) updateMsg {
	modules := result.Graph.Modules()
	deps := make(map[resolver.ModulePath][]resolver.ModulePath, len(modules))
	for _, mod := range modules {
		deps[mod] = result.Graph.Dependencies(mod)
	}
	return updateMsg{
		crate:       result.CrateName,
		cycles:      result.Cycles,
		modules:     modules,
		deps:        deps,
		moduleCount: result.Graph.ModuleCount(),
		fileCount:   result.FileCount,
	}
}

func joinPaths(paths []resolver.ModulePath, sep string) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, sep)
}
