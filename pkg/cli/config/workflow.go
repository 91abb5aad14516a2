package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/stride-hq/stride/pkg/domain/model/config"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration
type AppConfig struct {
	ElevatedRoles []string `toml:"elevated_roles"`
	Teams         []Team   `toml:"team"`
}

// Team represents a team configuration
type Team struct {
	ProjectID int64   `toml:"project_id"`
	Name      string  `toml:"name"`
	MemberIDs []int64 `toml:"member_ids"`
}

// Validate checks if the Team is valid
func (t *Team) Validate() error {
	if t.ProjectID <= 0 {
		return goerr.New("team project_id must be positive", goerr.V("project_id", t.ProjectID))
	}
	if t.Name == "" {
		return goerr.New("team name is required", goerr.V("project_id", t.ProjectID))
	}
	for _, id := range t.MemberIDs {
		if id <= 0 {
			return goerr.New("team member ID must be positive",
				goerr.V("project_id", t.ProjectID),
				goerr.V("member_id", id))
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	known := map[string]bool{
		string(types.RoleProductOwner): true,
		string(types.RoleScrumMaster):  true,
		string(types.RoleDeveloper):    true,
	}
	for _, role := range a.ElevatedRoles {
		if !known[role] {
			return goerr.New("unknown elevated role", goerr.V("role", role))
		}
	}

	projectIDs := make(map[int64]bool)
	for _, team := range a.Teams {
		if err := team.Validate(); err != nil {
			return goerr.Wrap(err, "invalid team")
		}
		if projectIDs[team.ProjectID] {
			return goerr.New("duplicate team project_id", goerr.V("project_id", team.ProjectID))
		}
		projectIDs[team.ProjectID] = true
	}

	return nil
}

// ToDomainWorkflowConfig converts AppConfig to the domain workflow
// configuration. Missing elevated_roles keep the default set.
func (a *AppConfig) ToDomainWorkflowConfig() *domainConfig.WorkflowConfig {
	cfg := domainConfig.DefaultWorkflowConfig()

	if len(a.ElevatedRoles) > 0 {
		roles := make([]types.Role, len(a.ElevatedRoles))
		for i, role := range a.ElevatedRoles {
			roles[i] = types.Role(role)
		}
		cfg.ElevatedRoles = roles
	}

	teams := make([]domainConfig.Team, len(a.Teams))
	for i, team := range a.Teams {
		teams[i] = domainConfig.Team{
			ProjectID: team.ProjectID,
			Name:      team.Name,
			MemberIDs: team.MemberIDs,
		}
	}
	cfg.Teams = teams

	return cfg
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// Workflow holds the CLI flag for the workflow configuration file
type Workflow struct {
	path string
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to workflow configuration file (TOML)",
			Sources:     cli.EnvVars("STRIDE_CONFIG"),
			Destination: &w.path,
		},
	}
}

// Configure loads the workflow configuration, falling back to the
// default when no file is given
func (w *Workflow) Configure() (*domainConfig.WorkflowConfig, error) {
	if w.path == "" {
		return domainConfig.DefaultWorkflowConfig(), nil
	}

	appCfg, err := LoadAppConfiguration(w.path)
	if err != nil {
		return nil, err
	}

	return appCfg.ToDomainWorkflowConfig(), nil
}
