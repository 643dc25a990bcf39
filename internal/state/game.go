package state

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Status of a match. Once it leaves InProgress it never changes again.
type Status uint8

const (
	InProgress Status = iota
	Draw
	FirstPlayerWon
	SecondPlayerWon
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "InProgress"
	case Draw:
		return "Draw"
	case FirstPlayerWon:
		return "FirstPlayerWon"
	case SecondPlayerWon:
		return "SecondPlayerWon"
	}
	exceptions.Panicf("unknown match status %d", uint8(s))
	return ""
}

// IsTerminal returns whether the match is over.
func (s Status) IsTerminal() bool {
	return s != InProgress
}

// WonBy returns the status for a match won by player.
func WonBy(player PlayerNum) Status {
	if player == PlayerFirst {
		return FirstPlayerWon
	}
	return SecondPlayerWon
}

const (
	// DrawMessage is the end of match message for a draw.
	DrawMessage = "!!! Game ended in draw !!!"

	// WinningMessageFormat is the end of match message for a win, formatted with the winner's name.
	WinningMessageFormat = "!!! Player %s has won !!!"

	// QueenMessage is displayed when the player on turn has to place its Queen Bee.
	QueenMessage = "!!! You must place Queen on this turn !!!"
)

// ErrGameOver is returned when trying to act on a finished match.
var ErrGameOver = errors.New("match is already finished")

// SelectionKind tells what was selected by a player.
type SelectionKind uint8

const (
	NoSelection SelectionKind = iota
	InventorySelection
	BoardSelection
)

// Selection of a piece to place (an inventory slot) or to move (a position in the board).
type Selection struct {
	Kind SelectionKind
	Slot int
	Pos  Pos
}

// SelectSlot returns the selection of the inventory slot (see Species.Slot).
func SelectSlot(slot int) Selection {
	return Selection{Kind: InventorySelection, Slot: slot}
}

// SelectPos returns the selection of the tile on top of the given board position.
func SelectPos(pos Pos) Selection {
	return Selection{Kind: BoardSelection, Pos: pos}
}

// String describes the selection.
func (s Selection) String() string {
	switch s.Kind {
	case InventorySelection:
		return fmt.Sprintf("inventory slot #%d", s.Slot)
	case BoardSelection:
		return fmt.Sprintf("board position %s", s.Pos)
	}
	return "nothing"
}

// Action describes a placement or a move. If Move is false, it's the placement of a new
// piece of the given Species, and SourcePos is ignored.
type Action struct {
	Move                 bool
	Species              Species
	SourcePos, TargetPos Pos
}

// SkipAction can only be played if there are no other actions to be taken.
var SkipAction = Action{Species: NoSpecies}

// IsSkipAction returns whether the action is a pass.
func (a Action) IsSkipAction() bool {
	return a.Species == NoSpecies
}

func (a Action) String() string {
	if a.IsSkipAction() {
		return "Pass (no action)"
	}
	if a.Move {
		return fmt.Sprintf("Move %s: %s->%s", a.Species.Letter(), a.SourcePos, a.TargetPos)
	}
	return fmt.Sprintf("Place %s in %s", a.Species.Letter(), a.TargetPos)
}

// TileView is the read-only view of one occupied position of the board.
type TileView struct {
	// Top tile: the only one that can move, and the one that counts for adjacency.
	Top Tile

	// Buried tiles under Top, bottom first. Empty if Top lies directly on the ground.
	Buried []Tile
}

// Game holds the full state of a match: the board, the frontier of the hive, the players'
// inventories, whose turn it is and the current selection of the player on turn.
//
// It is not safe for concurrent use.
type Game struct {
	rules       Rules
	board       *Board
	frontier    *Frontier
	inventories [NumPlayers]Inventory

	// turn counts full rounds: it is incremented every time the play returns to the starting player.
	turn int

	// moveNumber counts all actions (including passes) taken in the match.
	moveNumber int

	// playerActions counts the actions taken by each player.
	playerActions [NumPlayers]int

	nextPlayer   PlayerNum
	status       Status
	message      string
	finishReason string

	selection Selection
}

// NewGame creates a match with an empty board.
func NewGame(rules Rules) *Game {
	g := &Game{
		rules:       rules,
		board:       NewBoard(),
		frontier:    NewFrontier(rules.Seed),
		inventories: [NumPlayers]Inventory{InitialInventory, InitialInventory},
		nextPlayer:  rules.StartingPlayer,
	}
	klog.V(1).Infof("New match: %+v", rules)
	return g
}

// NewGameFromBoard creates a match in progress from the given board, with nextPlayer to
// play. It's used for tests and to set up positions.
//
// The inventories are the initial ones minus the pieces on the board, and each player is assumed
// to have taken one action per piece on the board.
func NewGameFromBoard(rules Rules, b *Board, nextPlayer PlayerNum) (*Game, error) {
	g := NewGame(rules)
	g.board = b.Clone()
	g.frontier = ComputeFrontier(g.board, rules.Seed)
	g.nextPlayer = nextPlayer
	for _, stack := range b.Stacks() {
		for _, tile := range stack {
			if tile.Species == NoSpecies || tile.Species >= LastSpecies || tile.Player >= NumPlayers {
				return nil, errors.Errorf("invalid tile %+v on board", tile)
			}
			inv := &g.inventories[tile.Player]
			if inv.Remaining(tile.Species) == 0 {
				return nil, errors.Errorf("too many pieces of %s for player %s on board", tile.Species, tile.Player)
			}
			inv.Take(tile.Species)
			g.playerActions[tile.Player]++
			g.moveNumber++
		}
	}
	g.turn = g.playerActions[rules.StartingPlayer.Opponent()]
	g.updateStatus()
	return g, nil
}

// Rules of the match.
func (g *Game) Rules() Rules {
	return g.rules
}

// Board returns the current board. It must not be modified: use Clone if needed.
func (g *Game) Board() *Board {
	return g.board
}

// Frontier returns a copy of the current frontier of the hive.
func (g *Game) Frontier() *Frontier {
	return g.frontier.Clone()
}

// NextPlayer returns the player on turn.
func (g *Game) NextPlayer() PlayerNum {
	return g.nextPlayer
}

// Turn returns the number of full rounds played.
func (g *Game) Turn() int {
	return g.turn
}

// MoveNumber returns the number of actions taken in the match.
func (g *Game) MoveNumber() int {
	return g.moveNumber
}

// PlayerActions returns the number of actions taken by the player.
func (g *Game) PlayerActions(player PlayerNum) int {
	return g.playerActions[player]
}

// Inventory of the given player.
func (g *Game) Inventory(player PlayerNum) Inventory {
	return g.inventories[player]
}

// InventorySnapshot returns the ordered list of species and remaining counts of player.
func (g *Game) InventorySnapshot(player PlayerNum) []InventorySlot {
	return g.inventories[player].Slots()
}

// BoardSnapshot returns a view of every occupied position of the board.
func (g *Game) BoardSnapshot() map[Pos]TileView {
	snapshot := make(map[Pos]TileView, g.board.NumOccupied())
	for pos, stack := range g.board.Stacks() {
		snapshot[pos] = TileView{Top: stack.Top(), Buried: slices.Clone(stack.Buried())}
	}
	return snapshot
}

// Status of the match.
func (g *Game) Status() Status {
	return g.status
}

// IsFinished returns whether the match is over.
func (g *Game) IsFinished() bool {
	return g.status.IsTerminal()
}

// Message returns the end of match message, or the Queen placement warning if the player on
// turn is forced to place the Queen Bee. Empty otherwise.
func (g *Game) Message() string {
	if g.status == InProgress && g.MustPlaceQueen() {
		return QueenMessage
	}
	return g.message
}

// FinishReason describes why the match ended.
func (g *Game) FinishReason() string {
	if !g.IsFinished() {
		return "match not finished yet"
	}
	return g.finishReason
}

// Winner returns the player that won the match. If it is a draw or the match is not
// finished, it returns PlayerInvalid.
func (g *Game) Winner() PlayerNum {
	switch g.status {
	case FirstPlayerWon:
		return PlayerFirst
	case SecondPlayerWon:
		return PlayerSecond
	}
	return PlayerInvalid
}

// isFirstTurn returns whether the player is making its first action, when it can place
// anywhere in the frontier.
func (g *Game) isFirstTurn(player PlayerNum) bool {
	return g.playerActions[player] == 0
}

// MustPlaceQueen returns whether the player on turn is in its 4th action without having
// placed the Queen Bee, in which case only the Queen can be selected.
func (g *Game) MustPlaceQueen() bool {
	return !g.inventories[g.nextPlayer].QueenPlaced() && g.playerActions[g.nextPlayer] == QueenDeadline-1
}

// CanSelect returns whether the player on turn is allowed to select sel.
//
// An inventory slot can be selected if there are pieces left in it, and it's the Queen Bee or
// the player is not forced to place the Queen. A board position can be selected if its top tile
// belongs to the player on turn and the player's Queen Bee is on the board.
func (g *Game) CanSelect(sel Selection) bool {
	if g.IsFinished() {
		return false
	}
	inv := g.inventories[g.nextPlayer]
	switch sel.Kind {
	case InventorySelection:
		if sel.Slot < 0 || sel.Slot >= NumSpecies || inv[sel.Slot] == 0 {
			return false
		}
		return AllSpecies[sel.Slot] == QueenBee || !g.MustPlaceQueen()
	case BoardSelection:
		tile, ok := g.board.TopAt(sel.Pos)
		return ok && tile.Player == g.nextPlayer && inv.QueenPlaced()
	}
	return false
}

// Select makes sel the current selection, if it's allowed. Otherwise, it clears the current
// selection and returns false.
func (g *Game) Select(sel Selection) bool {
	if !g.CanSelect(sel) {
		klog.V(2).Infof("Player %s can't select %s", g.nextPlayer, sel)
		g.selection = Selection{}
		return false
	}
	g.selection = sel
	return true
}

// Selection returns the current selection.
func (g *Game) Selection() Selection {
	return g.selection
}

// ClearSelection resets the current selection.
func (g *Game) ClearSelection() {
	g.selection = Selection{}
}

// LegalDestinations returns the sorted positions where the selected piece can be placed or
// moved to. It is empty if the selection is not allowed.
func (g *Game) LegalDestinations(sel Selection) []Pos {
	if !g.CanSelect(sel) {
		return nil
	}
	player := g.nextPlayer
	switch sel.Kind {
	case InventorySelection:
		return PlacementPositions(g.board, g.frontier, player, g.isFirstTurn(player), g.rules.StrictPlacement).
			SortedFunc(Pos.Compare)
	case BoardSelection:
		return LegalMoves(g.board, g.frontier, sel.Pos).SortedFunc(Pos.Compare)
	}
	return nil
}

// Commit places or moves the selected piece to dest, and advances the match.
//
// If there is no selection, or dest is not one of its legal destinations, it does nothing
// and returns applied=false: the selection is kept.
func (g *Game) Commit(dest Pos) (status Status, applied bool) {
	sel := g.selection
	if sel.Kind == NoSelection || !slices.Contains(g.LegalDestinations(sel), dest) {
		return g.status, false
	}
	var action Action
	switch sel.Kind {
	case InventorySelection:
		species := AllSpecies[sel.Slot]
		action = Action{Species: species, TargetPos: dest}
		g.board.Push(dest, Tile{Species: species, Player: g.nextPlayer})
		g.inventories[g.nextPlayer].Take(species)
		g.frontier.OnPlaced(g.board, dest)
	case BoardSelection:
		tile := g.board.MoveTop(sel.Pos, dest)
		action = Action{Move: true, Species: tile.Species, SourcePos: sel.Pos, TargetPos: dest}
		g.frontier.OnPlaced(g.board, dest)
		g.frontier.OnVacated(g.board, sel.Pos)
	}
	klog.V(1).Infof("Move #%d, player %s: %s", g.moveNumber+1, g.nextPlayer, action)
	g.selection = Selection{}
	g.endAction()
	if g.rules.Paranoid {
		if err := g.Validate(); err != nil {
			exceptions.Panicf("invariant violated after %s: %+v", action, err)
		}
	}
	return g.status, true
}

// Play takes the action for the player on turn: it's a Select followed by a Commit, and it
// returns an error if the action is not valid. SkipAction is the same as Pass.
func (g *Game) Play(action Action) error {
	if g.IsFinished() {
		return ErrGameOver
	}
	if action.IsSkipAction() {
		return g.Pass()
	}
	sel := SelectPos(action.SourcePos)
	if !action.Move {
		if action.Species >= LastSpecies {
			return errors.Errorf("%s: invalid species %d", action, action.Species)
		}
		sel = SelectSlot(action.Species.Slot())
	} else if tile, ok := g.board.TopAt(action.SourcePos); ok && tile.Species != action.Species {
		return errors.Errorf("%s: piece at %s is a %s", action, action.SourcePos, tile.Species)
	}
	if !g.Select(sel) {
		if g.MustPlaceQueen() {
			return errors.Errorf("%s: player %s must place the Queen Bee now", action, g.nextPlayer)
		}
		return errors.Errorf("%s: player %s can't select %s", action, g.nextPlayer, sel)
	}
	if _, applied := g.Commit(action.TargetPos); !applied {
		g.ClearSelection()
		return errors.Errorf("%s: %s is not a valid destination", action, action.TargetPos)
	}
	return nil
}

// Pass skips the turn of the player on turn. It's only allowed if the player has no
// other valid action.
func (g *Game) Pass() error {
	if g.IsFinished() {
		return ErrGameOver
	}
	if g.HasLegalAction() {
		return errors.Errorf("player %s can't pass: there are valid actions available", g.nextPlayer)
	}
	klog.V(1).Infof("Move #%d, player %s: %s", g.moveNumber+1, g.nextPlayer, SkipAction)
	g.selection = Selection{}
	g.endAction()
	return nil
}

// ValidActions lists all valid actions for the player on turn. If there are none, it
// returns only the SkipAction. If the match is finished it returns nil.
func (g *Game) ValidActions() []Action {
	if g.IsFinished() {
		return nil
	}
	actions := g.addPlacementActions(nil)
	actions = g.addMoveActions(actions)
	if len(actions) == 0 {
		actions = append(actions, SkipAction)
	}
	return actions
}

// HasLegalAction returns whether the player on turn has any action besides passing.
func (g *Game) HasLegalAction() bool {
	actions := g.ValidActions()
	return len(actions) > 0 && !actions[0].IsSkipAction()
}

func (g *Game) addPlacementActions(actions []Action) []Action {
	var positions []Pos
	for slot, species := range AllSpecies {
		sel := SelectSlot(slot)
		if !g.CanSelect(sel) {
			continue
		}
		if positions == nil {
			// The same for all species.
			positions = g.LegalDestinations(sel)
		}
		for _, pos := range positions {
			actions = append(actions, Action{Species: species, TargetPos: pos})
		}
	}
	return actions
}

func (g *Game) addMoveActions(actions []Action) []Action {
	for _, srcPos := range g.MovablePositions() {
		tile, _ := g.board.TopAt(srcPos)
		for _, tgtPos := range g.LegalDestinations(SelectPos(srcPos)) {
			actions = append(actions, Action{Move: true, Species: tile.Species, SourcePos: srcPos, TargetPos: tgtPos})
		}
	}
	return actions
}

// MovablePositions returns the sorted positions of the player on turn's tiles that can be
// selected and that would not break the hive if lifted. Some of them may still have no
// legal destination.
func (g *Game) MovablePositions() (positions []Pos) {
	if !g.inventories[g.nextPlayer].QueenPlaced() || g.IsFinished() {
		return nil
	}
	removable := g.board.RemovablePositions()
	for _, pos := range g.board.OccupiedPositions() {
		if removable.Has(pos) && g.CanSelect(SelectPos(pos)) {
			positions = append(positions, pos)
		}
	}
	return
}

// endAction checks for the end of the match and, if it continues, passes the turn to
// the other player.
func (g *Game) endAction() {
	g.moveNumber++
	g.playerActions[g.nextPlayer]++
	g.updateStatus()
	if g.IsFinished() {
		klog.V(1).Infof("Match finished after %d moves: %s (%s)", g.moveNumber, g.status, g.finishReason)
		return
	}
	if g.nextPlayer != g.rules.StartingPlayer {
		g.turn++
	}
	g.nextPlayer = g.nextPlayer.Opponent()
}

// updateStatus checks whether any placed Queen Bee is surrounded, or whether the max number of
// moves was reached.
func (g *Game) updateStatus() {
	var surrounded [NumPlayers]bool
	for player := range PlayerNum(NumPlayers) {
		if !g.inventories[player].QueenPlaced() {
			continue
		}
		if pos, found := g.board.FindQueen(player); found && g.board.IsSurrounded(pos) {
			surrounded[player] = true
		}
	}
	switch {
	case surrounded[PlayerFirst] && surrounded[PlayerSecond]:
		g.finish(Draw, "the Queens from both players were surrounded at the same time")
	case surrounded[PlayerFirst]:
		g.finish(WonBy(PlayerSecond), fmt.Sprintf("the %s player's Queen was surrounded", PlayerFirst))
	case surrounded[PlayerSecond]:
		g.finish(WonBy(PlayerFirst), fmt.Sprintf("the %s player's Queen was surrounded", PlayerSecond))
	case g.rules.MaxMoves > 0 && g.moveNumber >= g.rules.MaxMoves:
		g.finish(Draw, fmt.Sprintf("max number of moves %d was reached", g.rules.MaxMoves))
	}
}

func (g *Game) finish(status Status, reason string) {
	g.status = status
	g.finishReason = reason
	if winner := g.Winner(); winner != PlayerInvalid {
		g.message = fmt.Sprintf(WinningMessageFormat, g.rules.PlayerNames[winner])
	} else {
		g.message = DrawMessage
	}
}
