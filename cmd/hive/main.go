// hive plays a hotseat match (two humans on the same terminal).
package main

import (
	"flag"
	"io"
	"time"

	. "github.com/janpfeifer/hexhive/internal/state"
	"github.com/janpfeifer/hexhive/internal/ui/cli"
	"github.com/janpfeifer/hexhive/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagRules = flag.String("rules", "",
		"Rules configuration, a comma separated list of key=value, e.g. "+
			"\"strict_placement,max_moves=200,starting=1,first_name=BLACK,second_name=GRAY\".")
	flagColor = flag.Bool("color", true, "Use colors in the terminal.")
	flagClear = flag.Bool("clear", false, "Clear the screen before printing the board.")
	flagDot   = flag.Bool("dot", false, "Print the final hive in Graphviz (DOT) format.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C: reading from the terminal can't be interrupted, so restore it and exit.
	spinning.SafeInterrupt(spinning.Reset, time.Second)

	rules := must.M1(ParseRules(*flagRules))
	game := NewGame(rules)
	ui := cli.New(game, *flagColor, *flagClear)
	if err := ui.Run(); err != nil {
		if errors.Is(err, io.EOF) {
			klog.Infof("Input closed after %d moves.", game.MoveNumber())
			return
		}
		klog.Exitf("Failed to run match: %+v", err)
	}
	if *flagDot {
		ui.Execute("dot")
	}
}
