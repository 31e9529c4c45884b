package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type styles struct {
	x     lipgloss.Style
	o     lipgloss.Style
	empty lipgloss.Style
	grid  lipgloss.Style
}

func newStyles(renderer *lipgloss.Renderer) styles {
	return styles{
		x:     renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#007e50", Dark: "#6afd76"}),
		o:     renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#0003ad", Dark: "#5f61fc"}),
		empty: renderer.NewStyle().Faint(true),
		grid:  renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141", Dark: "#8f8f8f"}),
	}
}

// renderBoard draws the grid; empty cells show their 1-9 position.
func (that styles) renderBoard(board entity.Board) string {
	var sb strings.Builder

	sb.WriteString("\n")
	for row := range 3 {
		cells := make([]string, 0, 3)
		for col := range 3 {
			idx := row*3 + col
			cells = append(cells, " "+that.renderCell(board[idx], idx)+" ")
		}

		sb.WriteString(strings.Join(cells, that.grid.Render("|")))
		sb.WriteString("\n")

		if row < 2 {
			sb.WriteString(that.grid.Render("---+---+---"))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

func (that styles) renderCell(mark entity.Mark, idx int) string {
	switch mark {
	case entity.PlayerX:
		return that.x.Render(string(mark))
	case entity.PlayerO:
		return that.o.Render(string(mark))
	default:
		return that.empty.Render(string(rune('1' + idx)))
	}
}
