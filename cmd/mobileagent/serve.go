package main

import (
	"log"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aitoearn/mobile-agent-go/internal/mobileweb"
)

func newServeCmd() *cobra.Command {
	var addr, configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server exposing POST /api/tasks and SSE/websocket event streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			agentCfg, llm := loadAgentConfig(configPath)
			loopCfg := loopConfigFrom(agentCfg, true)

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: false}).With().Timestamp().Logger()
			server := mobileweb.NewServer(llm, agentCfg, loopCfg, logger)

			log.SetOutput(os.Stdout)
			return server.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "address to listen on")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an agent config file (default: mobileagent.yaml in cwd)")
	return cmd
}
