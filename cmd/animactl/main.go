// animactl drives a running soul server from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/animakit/anima/internal/buildconfig"
	"github.com/animakit/anima/internal/client"
)

var (
	// Global flags
	soulURL  string
	soulName string
	token    string
	timeout  time.Duration

	perceiveKind       string
	transitionReason   string
	rememberKind       string
	rememberImportance float64
	journalLimit       int
)

func newRemote() *client.Remote {
	remote := client.NewRemote(soulURL, soulName, token)
	remote.SetTimeout(timeout)
	return remote
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "animactl",
	Short: "Talk to a running soul server",
	Long: `animactl sends perceptions, forces mental-process transitions, stores
memories and inspects state over the soul server's HTTP API.`,
	SilenceUsage: true,
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the soul's current state",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().State(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var perceiveCmd = &cobra.Command{
	Use:   "perceive [text]",
	Short: "Send a perception and print the soul's response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().Perceive(cmd.Context(), args[0], perceiveKind)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var transitionCmd = &cobra.Command{
	Use:   "transition [process]",
	Short: "Force the soul into a mental process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().Transition(cmd.Context(), args[0], transitionReason)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var rememberCmd = &cobra.Command{
	Use:   "remember [content]",
	Short: "Store a memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().AddMemory(cmd.Context(), args[0], rememberKind, rememberImportance)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent engine operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().Journal(cmd.Context(), journalLimit)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the soul server",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newRemote().Health(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(buildconfig.VersionInfo())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&soulURL, "url", "http://localhost:3000", "Soul server base URL")
	rootCmd.PersistentFlags().StringVar(&soulName, "soul", "dot", "Soul name in the URL path")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for mutating calls")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Override every per-operation timeout")

	perceiveCmd.Flags().StringVar(&perceiveKind, "kind", "", "Perception kind tag")
	transitionCmd.Flags().StringVar(&transitionReason, "reason", "", "Why the process is forced")
	rememberCmd.Flags().StringVar(&rememberKind, "kind", "", "Memory kind tag")
	rememberCmd.Flags().Float64Var(&rememberImportance, "importance", -1, "Routing importance in [0,1]; negative uses the engine default")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 0, "Entries to return (server default 50)")

	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(perceiveCmd)
	rootCmd.AddCommand(transitionCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
