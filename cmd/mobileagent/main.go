package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitoearn/mobile-agent-go/internal/agentloop"
	"github.com/aitoearn/mobile-agent-go/internal/llmclient"
	"github.com/aitoearn/mobile-agent-go/pkg/config"
)

const (
	cliName = "mobileagent"
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   cliName,
		Short: "Mobile device automation agent",
		Long:  "Drives an Android device through a screenshot -> model -> action loop until a task finishes.",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadAgentConfig resolves tunables once for any subcommand that runs a
// loop, printing a fatal error rather than starting with a nonsensical
// configuration.
func loadAgentConfig(configPath string) (*config.AgentConfig, *llmclient.Client) {
	agentCfg, err := config.LoadAgentConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	llm, err := llmclient.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "llm client error: %v\n", err)
		os.Exit(1)
	}

	return agentCfg, llm
}

func loopConfigFrom(agentCfg *config.AgentConfig, enablePlanning bool) agentloop.Config {
	return agentloop.Config{
		MaxSteps:       agentCfg.MaxSteps,
		RequestTimeout: agentloop.DefaultConfig().RequestTimeout,
		EnablePlanning: enablePlanning,
	}
}
