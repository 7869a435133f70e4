// Package main is the surgeon CLI: a cobra command tree wiring the engine,
// descriptor, persistence, and project-selector layers into a runnable
// front end, plus a minimal status dashboard. The MIDI clock and OSC
// control-surface adapters are not wired into any command. It replaces the teacher's
// single flag-parsed main.go with the cobra tree the teacher's own go.mod
// already required but never used.
package main

import (
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	defaultPads  = 8
	defaultBanks = 1
	// STEPS = 2^(PADS-1), the record ring's capacity for the default pad count.
	defaultRingCapacity = 1 << (defaultPads - 1)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "surgeon",
		Short: "A pad-driven sample mangler and step sequencer engine",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newBankCmd())
	root.AddCommand(newDescriptorCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newProjectsCmd())
	return root
}

func main() {
	clog.SetLevel(clog.InfoLevel)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
