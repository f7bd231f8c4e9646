package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nullwiz/audiopipe/internal/transcript"
	"github.com/nullwiz/audiopipe/internal/viewstate"
)

// Bridge adapts engine broadcasts into bubbletea messages. It satisfies
// app.EventBroadcaster; sends never block, a full buffer drops the oldest
// style of update the model will re-derive on its next read anyway.
type Bridge struct {
	ch chan tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, 64)}
}

// Wait returns a command that delivers the next engine event.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}

func (b *Bridge) BroadcastStateChanged(state viewstate.State) {
	b.send(StateChangedMsg{State: state})
}

func (b *Bridge) BroadcastStatistics(stats transcript.Statistics) {
	b.send(StatisticsMsg{Stats: stats})
}

func (b *Bridge) BroadcastActiveSegment(id int, active bool) {
	b.send(ActiveSegmentMsg{SegmentID: id, Active: active})
}

func (b *Bridge) BroadcastToast(level, message string) {
	b.send(ToastMsg{Level: level, Message: message})
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}
