package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "2.0.0"

type rootFlags struct {
	configPath string
	color      string
}

func main() {
	rf := &rootFlags{}
	root := &cobra.Command{
		Use:           "gitgrade",
		Short:         "Grade GitHub repositories on hygiene, documentation, engineering, testing and activity",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&rf.configPath, "config-path", "cfg/yaml", "directory holding mode.yaml")
	root.PersistentFlags().StringVar(&rf.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newServeCmd(rf),
		newConsumeCmd(rf),
		newMigrateCmd(rf),
		newAnalyzeCmd(rf),
		newScoreCmd(rf),
	)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitErr carries a specific process exit code
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// useColor quyết định có tô màu output hay không
func useColor(flag string, f *os.File) bool {
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(f.Fd()))
	}
}
