package main

import (
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cold-archiving",
		Usage: "Submit cold archiving jobs for tagged RDS instances",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "The name of the profile to log in with",
				EnvVars: []string{"AWS_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "AWS Region to scan",
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Override the AWS endpoint, e.g. for a local emulator",
			},
			&cli.StringFlag{
				Name:    "access-key",
				Usage:   "Static access key, used together with --secret-key",
				EnvVars: []string{"AWS_ACCESS_KEY_ID"},
			},
			&cli.StringFlag{
				Name:    "secret-key",
				Usage:   "Static secret key, used together with --access-key",
				EnvVars: []string{"AWS_SECRET_ACCESS_KEY"},
			},
			&cli.StringFlag{
				Name:    "session-token",
				Usage:   "Static session token",
				EnvVars: []string{"AWS_SESSION_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "archiving-tag",
				Usage:   "Tag key that enables archiving for an instance",
				EnvVars: []string{"ARCHIVING_TAG_KEY"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "dispatch",
				Usage: "Submit one archiving job per instance tagged for archiving",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "retention-days",
						Aliases:  []string{"d"},
						Usage:    "Retention in days forwarded to every job",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Usage:   "Resolve and print jobs without submitting them",
						EnvVars: []string{"DRY_RUN"},
					},
					&cli.StringFlag{
						Name:    "metrics-namespace",
						Usage:   "CloudWatch namespace for dispatch metrics",
						EnvVars: []string{"METRICS_NAMESPACE"},
					},
				},
				Action: dispatch,
			},
			{
				Name:   "inspect",
				Usage:  "Show how every instance's tags resolve, without submitting anything",
				Action: inspect,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
