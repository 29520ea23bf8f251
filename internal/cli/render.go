package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fieldmine/minesweeper/internal/mines"
)

var (
	coverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	flagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	unsureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true)
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	loseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	countStyles = []lipgloss.Style{
		lipgloss.NewStyle(),                                   // 0, never shown
		lipgloss.NewStyle().Foreground(lipgloss.Color("12")),  // 1
		lipgloss.NewStyle().Foreground(lipgloss.Color("2")),   // 2
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")),   // 3
		lipgloss.NewStyle().Foreground(lipgloss.Color("4")),   // 4
		lipgloss.NewStyle().Foreground(lipgloss.Color("1")),   // 5
		lipgloss.NewStyle().Foreground(lipgloss.Color("6")),   // 6
		lipgloss.NewStyle().Foreground(lipgloss.Color("5")),   // 7
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")), // 8
	}
)

func renderTile(t mines.Tile) string {
	if t.Modifier == mines.Flagged {
		return flagStyle.Render("F")
	}
	if !t.Swept {
		if t.Modifier == mines.Unsure {
			return unsureStyle.Render("?")
		}
		return coverStyle.Render("·")
	}
	switch t.State {
	case mines.Zero:
		return " "
	case mines.Mine:
		return mineStyle.Render("X")
	default:
		return countStyles[t.State.Count()].Render(t.State.String())
	}
}

// Render draws the whole board with 1-based row and column headers,
// the elapsed clock and the command help line. The caller decides how
// to clear the screen between frames.
func Render(game *mines.Game) string {
	board := game.Board()
	gutter := len(fmt.Sprint(board.Height))

	var b strings.Builder

	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(frameStyle.Render("┃"))
	for x := range board.Width {
		fmt.Fprintf(&b, "%-2d", x+1)
	}
	b.WriteString(frameStyle.Render("┃"))
	b.WriteByte('\n')

	b.WriteString(frameStyle.Render(
		strings.Repeat("━", gutter) + "╋" + strings.Repeat("━", board.Width*2) + "┫"))
	b.WriteByte('\n')

	for y := range board.Height {
		fmt.Fprintf(&b, "%*d", gutter, y+1)
		b.WriteString(frameStyle.Render("┃"))
		for x := range board.Width {
			b.WriteString(renderTile(board.At(x, y)))
			b.WriteByte(' ')
		}
		b.WriteString(frameStyle.Render("┃"))
		b.WriteByte('\n')
	}

	b.WriteString(frameStyle.Render(
		strings.Repeat("━", gutter) + "┻" + strings.Repeat("━", board.Width*2) + "┛"))
	b.WriteByte('\n')

	if !game.StartedAt().IsZero() {
		elapsed := game.Elapsed().Round(time.Second)
		clock := fmt.Sprintf("%02d:%02d",
			int(elapsed.Minutes()), int(elapsed.Seconds())%60)
		fmt.Fprintf(&b, "Time Elapsed = %s │ ", timeStyle.Render(clock))
	}
	b.WriteString("Commands = x,y: sweep, fx,y: flag, ?x,y: mark, q: quit\n")

	return b.String()
}
