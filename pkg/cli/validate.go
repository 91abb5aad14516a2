package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/cli/config"
	"github.com/stride-hq/stride/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var path string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a workflow configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to workflow configuration file (TOML)",
				Required:    true,
				Sources:     cli.EnvVars("STRIDE_CONFIG"),
				Destination: &path,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appCfg, err := config.LoadAppConfiguration(path)
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"elevated_roles", appCfg.ElevatedRoles,
				"team_count", len(appCfg.Teams),
			)
			for _, team := range appCfg.Teams {
				logger.Info("Team validated",
					"project_id", team.ProjectID,
					"name", team.Name,
					"member_count", len(team.MemberIDs),
				)
			}

			return nil
		},
	}
}
