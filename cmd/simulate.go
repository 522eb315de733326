// -- cmd/simulate.go --
package cmd

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

var (
	simSeed  int64
	simText  string
	simFromX float64
	simFromY float64
	simToX   float64
	simToY   float64
)

// simulateCmd is a dry run of the generators: no OS capability is touched.
// Useful for tuning profiles and for eyeballing how a given seed behaves.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print a generated trajectory and keystroke sequence without executing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(simSeed))
		gen := humanoid.New(humanoid.ProfileFromConfig(appConfig.Input, appConfig.Typing), rng)

		start := humanoid.Vector2D{X: simFromX, Y: simFromY}
		end := humanoid.Vector2D{X: simToX, Y: simToY}
		traj := gen.Trajectory(start, end, humanoid.DurationRange{})

		fmt.Printf("trajectory: %d steps over %s\n", len(traj), traj.Duration())
		for i, p := range traj {
			fmt.Printf("  %3d  (%8.2f, %8.2f)  +%s\n", i, p.Pos.X, p.Pos.Y, p.Delay)
		}

		if simText != "" {
			events := gen.Keystrokes(simText)
			fmt.Printf("\nkeystrokes for %q: %d events\n", simText, len(events))
			for i, ev := range events {
				label := string(ev.Rune)
				if ev.Key != humanoid.KeyNone {
					label = "<" + string(ev.Key) + ">"
				}
				marker := ""
				if ev.Correction {
					marker = "  (correction)"
				}
				fmt.Printf("  %3d  %-12q +%s%s\n", i, label, ev.Delay, marker)
			}
			fmt.Printf("replayed: %q\n", humanoid.Replay(events))
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "random seed")
	simulateCmd.Flags().StringVar(&simText, "text", "", "text to generate keystrokes for")
	simulateCmd.Flags().Float64Var(&simFromX, "from-x", 100, "trajectory start x")
	simulateCmd.Flags().Float64Var(&simFromY, "from-y", 100, "trajectory start y")
	simulateCmd.Flags().Float64Var(&simToX, "to-x", 800, "trajectory end x")
	simulateCmd.Flags().Float64Var(&simToY, "to-y", 500, "trajectory end y")
	rootCmd.AddCommand(simulateCmd)
}
