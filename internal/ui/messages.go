package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/NasaLens/internal/broadcast"
	"github.com/yildizm/NasaLens/internal/viewmodel"
)

type stateMsg struct {
	state viewmodel.ViewState
}

type effectMsg struct {
	effect viewmodel.Effect
}

// pipelineClosedMsg is sent once the view model stops publishing
type pipelineClosedMsg struct{}

type toastExpiredMsg struct {
	seq int
}

// ThemeMsg switches the theme of a running program
type ThemeMsg struct {
	Name    string
	NoColor bool
}

func waitForState(sub *broadcast.Subscription[viewmodel.ViewState]) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-sub.C()
		if !ok {
			return pipelineClosedMsg{}
		}
		return stateMsg{state: state}
	}
}

func waitForEffect(sub *broadcast.Subscription[viewmodel.Effect]) tea.Cmd {
	return func() tea.Msg {
		effect, ok := <-sub.C()
		if !ok {
			return pipelineClosedMsg{}
		}
		return effectMsg{effect: effect}
	}
}
