package status

import (
	"errors"
	"io"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	session domain.Session
	network domain.ReachabilityStatus
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(session domain.Session, network domain.ReachabilityStatus, opts RenderOptions) model {
	return model{
		session: session,
		network: network,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.session, m.network, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(session domain.Session, network domain.ReachabilityStatus, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(session, network, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
