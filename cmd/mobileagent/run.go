package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	"github.com/aitoearn/mobile-agent-go/internal/agentloop"
	"github.com/aitoearn/mobile-agent-go/internal/devicebridge/adb"
	"github.com/aitoearn/mobile-agent-go/internal/event"
	"github.com/aitoearn/mobile-agent-go/internal/executor"
	"github.com/aitoearn/mobile-agent-go/internal/history"
	"github.com/aitoearn/mobile-agent-go/internal/mobilesession"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

func newRunCmd() *cobra.Command {
	var deviceID, protoFlag, configPath string
	var enablePlanning bool

	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Run a single task against a connected device and print its events to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := args[0]
			if deviceID == "" {
				return fmt.Errorf("--device is required")
			}

			agentCfg, llm := loadAgentConfig(configPath)
			protoName := protocol.Name(protoFlag)
			if protoName == "" {
				protoName = protocol.Universal
			}
			adapter := protocol.New(protoName)

			sink := &stdoutSink{}
			detector := history.NewLoopDetectorWithConfig(agentCfg.LoopWindowSize, agentCfg.SimilarityThreshold, agentCfg.MaxRepetitions)
			sess := mobilesession.NewWithDetector(context.Background(), uuid.NewString(), task, deviceID, protoName, agentCfg.MaxHistory, detector, sink)

			ctxCfg := agentctx.DefaultConfig()
			ctxCfg.MaxHistoryEntries = agentCfg.MaxHistory
			ctxCfg.MaxContextMessages = agentCfg.MaxContextMessages

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			dev := adb.New(deviceID, logger)
			builder := agentctx.New(ctxCfg, adapter)
			exec := executor.New(dev, adapter)
			loop := agentloop.New(sess, dev, builder, llm, exec, loopConfigFrom(agentCfg, enablePlanning))

			loop.Run(sess.Context())

			status, err := sess.StatusNow()
			fmt.Printf("\nfinal status: %s\n", status)
			if err != nil {
				return err
			}
			if status != mobilesession.StatusDone {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "adb device serial")
	cmd.Flags().StringVar(&protoFlag, "protocol", "universal", "protocol variant: universal, autoglm, or gelab")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an agent config file")
	cmd.Flags().BoolVar(&enablePlanning, "plan", false, "ask the model for an upfront numbered plan before the first step")
	return cmd
}

// stdoutSink renders each event as a single human-readable line, for
// watching a run unfold from a terminal rather than a browser.
type stdoutSink struct{}

func (s *stdoutSink) Send(e event.Event) bool {
	switch e.Kind {
	case event.KindPlan:
		fmt.Println("plan:")
		for i, step := range e.Plan {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	case event.KindThinking:
		fmt.Printf("[step %d] thinking: %s\n", e.Step, e.Thinking)
	case event.KindAction:
		fmt.Printf("[step %d] action: %s\n", e.Step, e.ActionDesc)
	case event.KindStep:
		fmt.Printf("[step %d] result: success=%v finished=%v %s\n", e.Step, e.Success, e.Finished, e.Message)
	case event.KindWarning:
		fmt.Printf("warning: %s\n", e.Warning)
	case event.KindError:
		fmt.Printf("error: %s\n", e.Err)
	case event.KindDone:
		fmt.Printf("done: %s (steps=%d, elapsed=%dms)\n", e.Solution, e.Stats.Steps, e.Stats.ElapsedMs)
	case event.KindCancelled:
		fmt.Printf("cancelled: %s\n", e.Reason)
	}
	return true
}

var _ event.Sink = (*stdoutSink)(nil)
