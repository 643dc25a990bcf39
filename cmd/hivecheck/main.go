// hivecheck plays many matches choosing uniformly among the valid actions, validating every
// invariant of the game after every action. On failure, it dumps the hive in DOT format.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hexhive/internal/profilers"
	"github.com/janpfeifer/hexhive/internal/state"
	"github.com/janpfeifer/hexhive/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagNumMatches  = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagRules = flag.String("rules", "max_moves=300",
		"Rules configuration, see state.ParseRules. Paranoid validation is always enabled.")
	flagSeed   = flag.Uint64("seed", 0, "Seed for the random choice of actions. 0 uses the current time.")
	flagDotDir = flag.String("dot_dir", "", "If set, the hive of a failed match is saved there in DOT format.")
)

// Globals
var (
	// globalCtx is cancelled when the program is interrupted (ctrl+C).
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	profiler := must.M1(profilers.Setup(globalCtx))
	defer profiler.OnQuit()

	rules := must.M1(state.ParseRules(*flagRules))
	rules.Paranoid = true
	seed := *flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	klog.Infof("Playing %d matches with rules %+v, seed=%d", *flagNumMatches, rules, seed)
	if err := runMatches(globalCtx, rules, seed); err != nil {
		klog.Exitf("Failed: %+v", err)
	}
}

// Results of the matches played so far.
type Results struct {
	mu                       sync.Mutex
	start                    time.Time
	wins                     [state.NumPlayers]int
	draws, played, total     int
	moves, passes, maxHeight int
}

func (r *Results) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	avgMoves := 0.0
	if r.played > 0 {
		avgMoves = float64(r.moves) / float64(r.played)
	}
	return fmt.Sprintf("Played %d of %d: 1st player wins %d, 2nd player wins %d, %d draws - "+
		"%.1f moves/match, %d passes, max stack %d - %s",
		r.played, r.total, r.wins[0], r.wins[1], r.draws, avgMoves, r.passes, r.maxHeight,
		time.Since(r.start).Round(time.Millisecond))
}

func (r *Results) record(g *state.Game, passes, maxHeight int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if winner := g.Winner(); winner == state.PlayerInvalid {
		r.draws++
	} else {
		r.wins[winner]++
	}
	r.played++
	r.moves += g.MoveNumber()
	r.passes += passes
	r.maxHeight = max(r.maxHeight, maxHeight)
}

func getParallelism() int {
	if *flagParallelism > 0 {
		return *flagParallelism
	}
	return runtime.GOMAXPROCS(0)
}

func runMatches(ctx context.Context, rules state.Rules, seed uint64) error {
	r := &Results{start: time.Now(), total: *flagNumMatches}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	spinner := spinning.New(ctx, os.Stdout, r.String)
	for matchIdx := range r.total {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return runMatch(ctx, matchIdx, rules, seed, r)
		})
	}
	err := wg.Wait()
	spinner.Done()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

// runMatch plays one match. Invariant violations panic inside the game, and are converted
// to errors here.
func runMatch(ctx context.Context, matchIdx int, rules state.Rules, seed uint64, r *Results) error {
	matchName := fmt.Sprintf("Match-%05d", matchIdx)
	klog.V(1).Infof("Starting %s", matchName)
	rng := rand.New(rand.NewPCG(seed, uint64(matchIdx)))
	g := state.NewGame(rules)
	var passes, maxHeight int
	err := exceptions.TryCatch[error](func() {
		for !g.IsFinished() && ctx.Err() == nil {
			actions := g.ValidActions()
			action := actions[rng.IntN(len(actions))]
			if action.IsSkipAction() {
				passes++
			}
			if err := g.Play(action); err != nil {
				exceptions.Panicf("valid action %s failed: %+v", action, err)
			}
			if !action.IsSkipAction() {
				maxHeight = max(maxHeight, g.Board().Height(action.TargetPos))
			}
			checkRemovable(g.Board())
		}
	})
	if err != nil {
		saveHive(matchName, g.Board())
		return errors.WithMessagef(err, "%s (seed=%d) failed at move #%d", matchName, seed, g.MoveNumber())
	}
	if ctx.Err() == nil {
		r.record(g, passes, maxHeight)
	}
	klog.V(1).Infof("Finished %s: %s after %d moves", matchName, g.Status(), g.MoveNumber())
	return nil
}

// checkRemovable cross-checks the articulation points search against the flood fill.
func checkRemovable(b *state.Board) {
	removable := b.RemovablePositions()
	for pos := range b.OccupiedPositionsIter() {
		if removable.Has(pos) == b.WouldDisconnect(pos) {
			exceptions.Panicf("RemovablePositions and WouldDisconnect disagree on %s", pos)
		}
	}
}

func saveHive(matchName string, b *state.Board) {
	dot, err := b.HiveGraph()
	if err != nil {
		klog.Errorf("Failed to generate DOT graph for %s: %+v", matchName, err)
		return
	}
	if *flagDotDir == "" {
		klog.Errorf("%s hive:\n%s", matchName, dot)
		return
	}
	path := filepath.Join(*flagDotDir, matchName+".dot")
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		klog.Errorf("Failed to save %s: %v", path, err)
		return
	}
	klog.Errorf("%s hive saved to %s", matchName, path)
}
