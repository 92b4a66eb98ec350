package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// RunFlags holds flags for the run command.
type RunFlags struct {
	ConfigPath string
	Executable string
	Count      int
	LogPath    string
	HistoryDSN string
	Yes        bool
	Seed       int64
}

func buildRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "hallfill",
		Short:         "Batch-import synthetic users into the business-hall console system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runFlags := &RunFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the target program through N add-user cycles, then save and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutomation(runFlags)
		},
	}
	runCmd.Flags().StringVarP(&runFlags.ConfigPath, "config", "c", "", "TOML config file")
	runCmd.Flags().StringVarP(&runFlags.Executable, "exe", "e", "", "path to the target executable")
	runCmd.Flags().IntVarP(&runFlags.Count, "count", "n", 0, "number of users to import")
	runCmd.Flags().StringVar(&runFlags.LogPath, "log", "", "transcript log file (rotated)")
	runCmd.Flags().StringVar(&runFlags.HistoryDSN, "history", "", "outcome store DSN, e.g. sqlite://outcomes.db")
	runCmd.Flags().BoolVarP(&runFlags.Yes, "yes", "y", false, "skip the confirmation prompt")
	runCmd.Flags().Int64Var(&runFlags.Seed, "seed", 0, "record pool seed (0 = from clock)")
	root.AddCommand(runCmd)

	return root
}
