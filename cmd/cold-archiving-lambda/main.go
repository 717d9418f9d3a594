package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	archiving "github.com/luneo7/go-rds-cold-archiving/internal/cold-archiving"
	"github.com/luneo7/go-rds-cold-archiving/internal/config"
	"github.com/luneo7/go-rds-cold-archiving/internal/logger"
)

func main() {
	conf, err := config.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(conf.LogLevel, false)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Unable to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	awsConfig, err := conf.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatal("fail to get AWS config", zap.Error(err))
	}

	lambda.Start(archiving.NewColdArchiving(&awsConfig, conf, log).HandleRequest)
}
