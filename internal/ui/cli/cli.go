// Package cli implements a command-line UI for the game.
//
// It only drives a state.Game: it selects pieces, shows their legal destinations and commits
// the chosen one. All rules live in the state package.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/hexhive/internal/generics"
	. "github.com/janpfeifer/hexhive/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

const (
	LinesPerRow    = 4
	CharsPerColumn = 9
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

func centerString(s string, fit int) string {
	if len(s) >= fit {
		return s
	}
	marginLeft := (fit - len(s)) / 2
	marginRight := fit - len(s) - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

// DisplayToPos converts display coordinates (column x, row y, with odd columns shifted half
// a row down) to the axial position.
func DisplayToPos(x, y int) Pos {
	return Pos{x, y - (x-(x&1))/2}
}

// PosToDisplay converts an axial position to display coordinates: the inverse of DisplayToPos.
func PosToDisplay(pos Pos) (x, y int) {
	x = pos.Q()
	y = pos.R() + (x-(x&1))/2
	return
}

// UI runs a match on the terminal, reading commands from the input.
type UI struct {
	game               *Game
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer

	// highlight holds the legal destinations of the current selection.
	highlight generics.Set[Pos]
}

var (
	placementParser = regexp.MustCompile(`^(?:PLACE\s+)?([A-Z])[\s,]+(-?\d+)[\s,]+(-?\d+)$`)
	moveParser      = regexp.MustCompile(`^(?:MOVE\s+)?(-?\d+)[\s,]+(-?\d+)[\s,]+(-?\d+)[\s,]+(-?\d+)$`)
	selectParser    = regexp.MustCompile(`^SELECT\s+(?:([A-Z])|(-?\d+)[\s,]+(-?\d+))$`)
	commitParser    = regexp.MustCompile(`^TO[\s,]+(-?\d+)[\s,]+(-?\d+)$`)
)

// New creates a UI for the game reading from stdin and printing to stdout.
func New(game *Game, color, clearScreen bool) *UI {
	return NewWithIO(game, os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI for the game with the given input and output.
func NewWithIO(game *Game, in io.Reader, out io.Writer, color, clearScreen bool) *UI {
	return &UI{
		game:        game,
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) println(args ...any) {
	_, _ = fmt.Fprintln(ui.out, args...)
}

// terminalWidth returns the width of the output, or 0 if it is not a terminal.
func (ui *UI) terminalWidth() int {
	f, ok := ui.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((ui.terminalWidth()-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			ui.println()
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// Run the match until it finishes, the player quits or the input is closed.
func (ui *UI) Run() error {
	for !ui.game.IsFinished() {
		if ui.PassIfBlocked() {
			continue
		}
		ui.Print(true)
		quit, err := ui.ReadCommand()
		if err != nil {
			return err
		}
		if quit {
			ui.println("Match abandoned.")
			return nil
		}
	}
	ui.Print(false)
	ui.PrintWinner()
	return nil
}

// PassIfBlocked passes the turn if the player has no legal action, and returns whether it did.
func (ui *UI) PassIfBlocked() bool {
	if ui.game.IsFinished() || ui.game.HasLegalAction() {
		return false
	}
	ui.println()
	ui.PrintPlayer(ui.game.NextPlayer())
	ui.println(" has no available actions, skipping.")
	ui.println()
	if err := ui.game.Pass(); err != nil {
		klog.Errorf("Failed to pass: %+v", err)
		return false
	}
	return true
}

// ReadCommand reads one line of input and executes it. Invalid commands are reported and
// don't return an error: only a failure to read does.
func (ui *UI) ReadCommand() (quit bool, err error) {
	ui.printf("    ")
	ui.PrintPlayer(ui.game.NextPlayer())
	ui.printf(" action > ")
	text, err := ui.reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		err = errors.Wrap(err, "failed to read command")
		return
	}
	err = nil
	quit = ui.Execute(text)
	return
}

// Execute one command, and returns whether the player asked to quit.
func (ui *UI) Execute(text string) (quit bool) {
	text = strings.ToUpper(strings.TrimSpace(text))
	switch text {
	case "":
		return
	case "QUIT", "EXIT":
		return true
	case "HELP":
		ui.printHelp()
		return
	case "PASS":
		if err := ui.game.Pass(); err != nil {
			ui.printf("    * %v\n", err)
		}
		return
	case "DOT":
		dot, err := ui.game.Board().HiveGraph()
		if err != nil {
			ui.printf("    * %+v\n", err)
			return
		}
		ui.println(dot)
		return
	}

	if matches := placementParser.FindStringSubmatch(text); matches != nil {
		species, ok := LetterToSpecies[matches[1]]
		if !ok {
			ui.printf("    * Sorry insect %q unknown, choose one of 'A', 'B', 'G', 'Q', 'S'\n", matches[1])
			return
		}
		if ui.selectSlot(species) {
			ui.commit(parsePos(matches[2], matches[3]))
		}
		return
	}
	if matches := moveParser.FindStringSubmatch(text); matches != nil {
		if ui.selectPos(parsePos(matches[1], matches[2])) {
			ui.commit(parsePos(matches[3], matches[4]))
		}
		return
	}
	if matches := selectParser.FindStringSubmatch(text); matches != nil {
		if matches[1] != "" {
			species, ok := LetterToSpecies[matches[1]]
			if !ok {
				ui.printf("    * Sorry insect %q unknown\n", matches[1])
				return
			}
			ui.selectSlot(species)
		} else {
			ui.selectPos(parsePos(matches[2], matches[3]))
		}
		return
	}
	if matches := commitParser.FindStringSubmatch(text); matches != nil {
		ui.commit(parsePos(matches[1], matches[2]))
		return
	}
	ui.printf("    * Failed to parse your input %q, type 'help' for the list of commands.\n", text)
	return
}

// parsePos parses coordinates already matched by one of the parsers.
func parsePos(q, r string) Pos {
	qi, _ := strconv.Atoi(q)
	ri, _ := strconv.Atoi(r)
	return Pos{qi, ri}
}

func (ui *UI) selectSlot(species Species) bool {
	sel := SelectSlot(species.Slot())
	if !ui.game.Select(sel) {
		ui.highlight = nil
		switch {
		case ui.game.MustPlaceQueen():
			ui.printf("    * %s\n", QueenMessage)
		case ui.game.Inventory(ui.game.NextPlayer()).Remaining(species) == 0:
			ui.printf("    * No %s left to place.\n", species)
		default:
			ui.printf("    * Can't place a %s now.\n", species)
		}
		return false
	}
	ui.setHighlight(sel)
	return true
}

func (ui *UI) selectPos(pos Pos) bool {
	sel := SelectPos(pos)
	if !ui.game.Select(sel) {
		ui.highlight = nil
		tile, ok := ui.game.Board().TopAt(pos)
		switch {
		case !ok:
			ui.printf("    * There is no piece at %s.\n", pos)
		case tile.Player != ui.game.NextPlayer():
			ui.printf("    * The %s at %s is not yours.\n", tile.Species, pos)
		case !ui.game.Inventory(ui.game.NextPlayer()).QueenPlaced():
			ui.println("    * One can only start moving pieces once the Queen is on the board.")
		default:
			ui.printf("    * Can't move the %s at %s now.\n", tile.Species, pos)
		}
		return false
	}
	ui.setHighlight(sel)
	return true
}

func (ui *UI) setHighlight(sel Selection) {
	destinations := ui.game.LegalDestinations(sel)
	ui.highlight = generics.SetWith(destinations...)
	ui.printf("    Selected %s: destinations [%s]\n", sel, strings.Join(PosStrings(destinations), ", "))
}

func (ui *UI) commit(dest Pos) {
	sel := ui.game.Selection()
	if sel.Kind == NoSelection {
		ui.println("    * Nothing selected, use 'select' first.")
		return
	}
	if _, applied := ui.game.Commit(dest); !applied {
		ui.printf("    * %s is not a valid destination for %s.\n", dest, sel)
		ui.game.ClearSelection()
	}
	ui.highlight = nil
}

func (ui *UI) printHelp() {
	ui.println(`  Commands (coordinates are the "q,r" printed in each cell):
  - <letter> <q> <r>: place a new piece, e.g. "Q 0 0" or "place A 1 -1".
  - <q> <r> <q2> <r2>: move the piece at (q, r) to (q2, r2).
  - select <letter> | select <q> <r>: select a piece and show its destinations (marked with '+').
  - to <q> <r>: move or place the selected piece.
  - pass: only allowed when there are no other actions.
  - dot: print the hive in Graphviz format.
  - quit: abandon the match.`)
}

// Print the board, the inventories and the player on turn.
func (ui *UI) Print(includeAvailableActions bool) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	ui.printf("\n%s\n\n", ui.render(lipgloss.NewStyle().Bold(true).Italic(true),
		fmt.Sprintf("Move #%d (turn %d)", ui.game.MoveNumber(), ui.game.Turn())))

	ui.PrintBoard()
	ui.println()
	ui.PrintInventories()

	if ui.game.IsFinished() {
		return
	}
	ui.println()
	ui.PrintPlayer(ui.game.NextPlayer())
	ui.println(" turn to play")
	if msg := ui.game.Message(); msg != "" {
		ui.println(ui.render(lipgloss.NewStyle().Blink(true).Bold(true), msg))
	}
	if includeAvailableActions {
		ui.printActions()
	}
}

// PrintWinner prints the end of match banner.
func (ui *UI) PrintWinner() {
	ui.println()
	style := lipgloss.NewStyle().Padding(1, 2).Bold(true)
	if winner := ui.game.Winner(); winner == PlayerInvalid {
		style = style.Background(lipgloss.Color("13")).Foreground(lipgloss.Color("0"))
	} else {
		style = ui.playerStyle(winner).Padding(1, 2)
	}
	ui.printCentered(ui.render(style, fmt.Sprintf("%s\n(%s)", ui.game.Message(), ui.game.FinishReason())))
	ui.println()
}

// PrintPlayer prints the name of the player with its color.
func (ui *UI) PrintPlayer(player PlayerNum) {
	ui.printf("%s", ui.render(ui.playerStyle(player), ui.game.Rules().PlayerNames[player]+" player"))
}

// PrintInventories prints the pieces each player has still off-board.
func (ui *UI) PrintInventories() {
	for _, player := range []PlayerNum{PlayerFirst, PlayerSecond} {
		parts := make([]string, 0, NumSpecies)
		for _, slot := range ui.game.InventorySnapshot(player) {
			if slot.Remaining > 0 {
				parts = append(parts, fmt.Sprintf("%s-%d", slot.Species, slot.Remaining))
			}
		}
		ui.PrintPlayer(player)
		ui.printf(" off-board: [%s]\n", strings.Join(parts, ", "))
	}
}

// displayLimits returns the range of display coordinates used by positions, with one extra
// cell of margin around it.
func displayLimits(positions []Pos) (minX, maxX, minY, maxY int) {
	for ii, pos := range positions {
		x, y := PosToDisplay(pos)
		if ii == 0 {
			minX, maxX, minY, maxY = x, x, y, y
			continue
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return minX - 1, maxX + 1, minY - 1, maxY + 1
}

// PrintBoard draws the hive with hexagonal cells.
func (ui *UI) PrintBoard() {
	snapshot := ui.game.BoardSnapshot()
	positions := make([]Pos, 0, len(snapshot)+1)
	for pos := range snapshot {
		positions = append(positions, pos)
	}
	if len(positions) == 0 {
		positions = append(positions, ui.game.Frontier().Seed())
	}
	minX, maxX, minY, maxY := displayLimits(positions)

	var buf strings.Builder
	for y := minY; y <= maxY; y++ {
		for line := range LinesPerRow {
			ui.printBoardLine(&buf, snapshot, y, line, minX, maxX)
		}
	}
	ui.printCentered(buf.String())
}

func (ui *UI) printBoardLine(w io.Writer, snapshot map[Pos]TileView, y, line, minX, maxX int) {
	for x := minX; x <= maxX+1; x++ {
		adjY := y
		adjLine := line
		if x%2 != 0 {
			// Odd columns are shifted half a cell down.
			adjLine = (line - LinesPerRow/2 + LinesPerRow) % LinesPerRow
			if adjLine >= 2 {
				adjY--
			}
		}
		pos := DisplayToPos(x, adjY)
		view, occupied := snapshot[pos]
		ui.printStrip(w, pos, view, occupied, adjLine, x == maxX+1)
	}
	_, _ = fmt.Fprintln(w)
}

func (ui *UI) printStrip(w io.Writer, pos Pos, view TileView, occupied bool, line int, lastX bool) {
	const inner = CharsPerColumn - 2
	switch line {
	case 0:
		_, _ = fmt.Fprint(w, " /")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat(" ", inner))
		}
	case 1:
		_, _ = fmt.Fprint(w, "/")
		if !lastX {
			_, _ = fmt.Fprint(w, " "+centerString(fmt.Sprintf("%d,%d", pos.Q(), pos.R()), inner))
		}
	case 2:
		_, _ = fmt.Fprint(w, "\\")
		if lastX {
			break
		}
		_, _ = fmt.Fprint(w, " ")
		switch {
		case occupied:
			_, _ = fmt.Fprint(w, ui.renderView(view, inner))
		case ui.highlight.Has(pos):
			_, _ = fmt.Fprint(w, ui.render(lipgloss.NewStyle().Blink(true), centerString("+", inner)))
		default:
			_, _ = fmt.Fprint(w, strings.Repeat(" ", inner))
		}
	case 3:
		_, _ = fmt.Fprint(w, " \\")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat("_", inner))
		}
	}
}

// renderView renders the top tile letter, followed by the buried tiles in parenthesis, centered in fit.
func (ui *UI) renderView(view TileView, fit int) string {
	if len(view.Buried) == 0 {
		return ui.render(ui.tileStyle(view.Top), centerString(view.Top.Species.Letter(), fit))
	}
	totalLen := 3 + len(view.Buried)
	marginLeft := max((fit-totalLen)/2, 0)
	marginRight := max(fit-totalLen-marginLeft, 0)
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", marginLeft))
	sb.WriteString(ui.render(ui.tileStyle(view.Top), view.Top.Species.Letter()+"("))
	for _, tile := range view.Buried {
		sb.WriteString(ui.render(ui.tileStyle(tile), tile.Species.Letter()))
	}
	sb.WriteString(ui.render(ui.tileStyle(view.Top), ")"))
	sb.WriteString(strings.Repeat(" ", marginRight))
	return sb.String()
}

// Palette: background per player, and the Queen Bee highlighted.
var playerColors = [NumPlayers]lipgloss.Color{"1", "2"}

func (ui *UI) playerStyle(player PlayerNum) lipgloss.Style {
	return lipgloss.NewStyle().Background(playerColors[player]).Foreground(lipgloss.Color("0")).Bold(true)
}

func (ui *UI) tileStyle(tile Tile) lipgloss.Style {
	style := ui.playerStyle(tile.Player)
	if tile.Species == QueenBee {
		style = style.Foreground(lipgloss.Color("15"))
	}
	return style
}

func (ui *UI) render(style lipgloss.Style, s string) string {
	if !ui.color {
		return s
	}
	return style.Render(s)
}

func (ui *UI) printActions() {
	ui.println("- Available actions:")
	ui.printPlacementActions()
	ui.printMoveActions()
}

func (ui *UI) printPlacementActions() {
	g := ui.game
	var placeable []Species
	var positions []Pos
	for slot, species := range AllSpecies {
		sel := SelectSlot(slot)
		if !g.CanSelect(sel) {
			continue
		}
		if positions == nil {
			// Same for all species.
			positions = g.LegalDestinations(sel)
		}
		placeable = append(placeable, species)
	}
	if len(positions) == 0 {
		return
	}
	if g.MustPlaceQueen() {
		ui.println("  - After the 3rd action, the Queen must be placed on the board")
	}
	names := make([]string, len(placeable))
	for ii, species := range placeable {
		names[ii] = species.String()
	}
	ui.printf("  - Place a piece [%s] in one of the positions [%s]\n",
		strings.Join(names, ", "), strings.Join(PosStrings(positions), ", "))
	example := positions[0]
	ui.printf("    Example: type '%s %d %d' to place a %s in %s\n",
		placeable[0].Letter(), example.Q(), example.R(), placeable[0], example)
}

func (ui *UI) printMoveActions() {
	g := ui.game
	player := g.NextPlayer()
	if !g.Inventory(player).QueenPlaced() {
		ui.println("  - Movement of pieces not allowed until the Queen is on the board.")
		return
	}
	hasMoves := false
	for _, srcPos := range g.MovablePositions() {
		destinations := g.LegalDestinations(SelectPos(srcPos))
		if len(destinations) == 0 {
			continue
		}
		tile, _ := g.Board().TopAt(srcPos)
		if !hasMoves {
			ui.printf("    Example: to move the %s at %s to %s, type '%d %d %d %d'\n",
				tile.Species, srcPos, destinations[0],
				srcPos.Q(), srcPos.R(), destinations[0].Q(), destinations[0].R())
		}
		hasMoves = true
		ui.printf("  - Move %s at %s to one of the positions [%s]\n",
			tile.Species, srcPos, strings.Join(PosStrings(destinations), ", "))
	}
	if !hasMoves {
		ui.println("  - All your pieces are blocked, no movement is possible.")
	}
}
