package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	archiving "github.com/luneo7/go-rds-cold-archiving/internal/cold-archiving"
	"github.com/luneo7/go-rds-cold-archiving/internal/config"
	"github.com/luneo7/go-rds-cold-archiving/internal/logger"
)

func newColdArchiving(c *cli.Context, conf *config.Config) (*archiving.ColdArchiving, *zap.Logger, error) {
	conf.Profile = c.String("profile")
	conf.Region = c.String("region")
	conf.Endpoint = c.String("endpoint")
	conf.Key = c.String("access-key")
	conf.Secret = c.String("secret-key")
	conf.SessionToken = c.String("session-token")
	conf.LogLevel = c.String("log-level")
	if tag := c.String("archiving-tag"); tag != "" {
		conf.ArchivingTagKey = tag
	}

	log, err := logger.New(conf.LogLevel, true)
	if err != nil {
		return nil, nil, err
	}

	awsConfig, err := conf.LoadAWSConfig(c.Context)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fail to get AWS config")
	}

	return archiving.NewColdArchiving(&awsConfig, conf, log), log, nil
}

func dispatch(c *cli.Context) error {
	conf, err := config.FromEnv()
	if err != nil {
		return err
	}
	conf.DryRun = c.Bool("dry-run")
	conf.MetricsNamespace = c.String("metrics-namespace")

	coldArchiving, log, err := newColdArchiving(c, conf)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	summary, err := coldArchiving.Dispatch(c.Context, archiving.RetentionDays(c.String("retention-days")))
	if summary != nil {
		if writeErr := writeJSON(summary); writeErr != nil {
			return writeErr
		}
	}

	if err != nil {
		log.Error("dispatch failed", zap.Error(err))
		return err
	}

	return nil
}

func inspect(c *cli.Context) error {
	conf, err := config.FromEnv()
	if err != nil {
		return err
	}

	coldArchiving, log, err := newColdArchiving(c, conf)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	reports, err := coldArchiving.Inspect(c.Context)
	if err != nil {
		log.Error("inspect failed", zap.Error(err))
		return err
	}

	return writeJSON(reports)
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
