package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/novabotics/agent-go/internal/agentconfig"
	"github.com/novabotics/agent-go/pkg/agent"
	"github.com/novabotics/agent-go/pkg/db"
	"github.com/novabotics/agent-go/pkg/interfaces/motion"
	"github.com/novabotics/agent-go/pkg/llm/openai"
	"github.com/novabotics/agent-go/pkg/logging"
	"github.com/novabotics/agent-go/pkg/memory"
	"github.com/novabotics/agent-go/pkg/planner"
	"github.com/novabotics/agent-go/pkg/wallet"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Only log warning since .env is optional
		logrus.WithError(err).Warn("Error loading .env file")
	}

	// Initialize logger
	log := logrus.New()
	log.SetFormatter(logging.NewColoredJSONFormatter())

	// Get log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if level, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithFields(logrus.Fields{
			"attempted_level": logLevel,
			"default_level":   "INFO",
		}).Warn("Invalid log level specified, defaulting to INFO")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenAI client
	openaiConfig, err := openai.NewOpenAIConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to create OpenAI config")
	}
	openaiConfig.Logger = log

	llmClient, err := openai.NewClient(openaiConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create OpenAI client")
	}

	// Initialize motion gateway client
	motionConfig, err := motion.NewMotionConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to create motion config")
	}
	// Override logger to use our main logger
	motionConfig.Logger = log

	motionClient, err := motion.NewMotionClient(motionConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create motion client")
	}

	// Command persistence is optional; the agent runs without it
	var store *memory.CommandStore
	if os.Getenv("DB_HOST") != "" {
		conn, err := db.SetupDatabase(log)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up database")
		}
		store, err = memory.NewCommandStore(conn, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create command store")
		}
	} else {
		log.Warn("DB_HOST not set, dispatched commands will not be recorded")
	}

	// The wallet is optional; without it the pay action is not registered
	var robotWallet *wallet.Wallet
	if os.Getenv("WALLET_PRIVATE_KEY") != "" {
		walletConfig, err := wallet.NewWalletConfig()
		if err != nil {
			log.WithError(err).Fatal("Failed to create wallet config")
		}
		robotWallet, err = wallet.New(walletConfig, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create wallet")
		}
	}

	// Initialize agent
	robotAgent, err := agent.New(agent.Config{
		Logger: log,
		Store:  store,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create agent")
	}

	configured, err := agentconfig.ConfigureActions(agentconfig.ActionConfig{
		MotionClient: motionClient,
		Wallet:       robotWallet,
		Logger:       log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to configure actions")
	}

	for _, action := range configured {
		if err := robotAgent.RegisterAction(action); err != nil {
			log.WithError(err).Fatal("Failed to register action")
		}
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("Received shutdown signal")
		cancel()
	}()

	// When a goal is supplied, plan and dispatch it before the tick loops start
	if goal := os.Getenv("AGENT_GOAL"); goal != "" {
		proc, err := planner.NewProcessor(planner.Config{
			Logger: log,
			LLM:    llmClient,
			Agent:  robotAgent,
		})
		if err != nil {
			log.WithError(err).Fatal("Failed to create planner")
		}

		decision, err := proc.PlanAndExecute(ctx, goal)
		if err != nil {
			log.WithError(err).Error("Failed to execute goal")
		} else {
			log.WithFields(logrus.Fields{
				"decision_id": decision.ID,
				"action":      decision.Action,
			}).Info("Goal dispatched")
		}
	}

	log.Info("Starting robot agent")

	// Run the agent
	if err := robotAgent.Run(ctx); err != nil && err != context.Canceled {
		log.WithError(err).Fatal("Agent stopped with error")
	}

	log.Info("Agent shutdown complete")
}
