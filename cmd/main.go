package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"travel-assistant/handler"
	"travel-assistant/internal/assistant"
	appconfig "travel-assistant/internal/config"
	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/repository"
	"travel-assistant/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := appconfig.LoadLambda()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := appconfig.NewLambdaLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// ---- AWS SDK config ----
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	store, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
	if err != nil {
		logger.Error("failed to create session store", "err", err)
		os.Exit(1)
	}

	defaults := usecase.Settings{
		ThinkingDelayMin: cfg.ThinkingDelayMin,
		ThinkingDelayMax: cfg.ThinkingDelayMax,
		MaxMessageLength: cfg.MaxMessageLength,
	}
	var settings usecase.SettingsSource = usecase.StaticSettings(defaults)
	if cfg.ParamPrefix != "" {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			logger.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		settings, err = usecase.NewParamSettings(ssmClient, cfg.ParamPrefix, defaults)
		if err != nil {
			logger.Error("failed to create runtime settings", "err", err)
			os.Exit(1)
		}
	}

	// ---- Handler ----
	chat, err := usecase.NewChatService(store, assistant.Engine{}, settings, logger)
	if err != nil {
		logger.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(chat, logger)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
