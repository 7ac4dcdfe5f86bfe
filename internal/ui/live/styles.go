package live

import (
	"github.com/charmbracelet/lipgloss"

	"sage/internal/agent"
)

type styleSet struct {
	thought lipgloss.Style
	call    lipgloss.Style
	result  lipgloss.Style
	failure lipgloss.Style
	answer  lipgloss.Style
	body    lipgloss.Style
}

func stylesFor(noColor bool) styleSet {
	if noColor {
		plain := lipgloss.NewStyle()
		return styleSet{
			thought: plain,
			call:    plain,
			result:  plain,
			failure: plain,
			answer:  plain,
			body:    plain.PaddingLeft(2),
		}
	}
	return styleSet{
		thought: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		call:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		result:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		answer:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		body:    lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("7")),
	}
}

func (s styleSet) heading(kind agent.EventKind) lipgloss.Style {
	switch kind {
	case agent.EventModelThought:
		return s.thought
	case agent.EventToolCall:
		return s.call
	case agent.EventToolResult:
		return s.result
	case agent.EventToolError:
		return s.failure
	case agent.EventFinalAnswer:
		return s.answer
	default:
		return s.body
	}
}
