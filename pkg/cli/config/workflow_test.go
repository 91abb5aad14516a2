package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/cli/config"
	"github.com/stride-hq/stride/pkg/domain/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stride.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
elevated_roles = ["PRODUCT_OWNER", "SCRUM_MASTER"]

[[team]]
project_id = 1
name = "payments"
member_ids = [100, 200, 300]

[[team]]
project_id = 2
name = "checkout"
member_ids = [400]
`)

		appCfg := gt.R1(config.LoadAppConfiguration(path)).NoError(t)
		gt.Array(t, appCfg.Teams).Length(2)

		cfg := appCfg.ToDomainWorkflowConfig()
		gt.B(t, cfg.HasUnilateralAdmitRight(types.Roles{types.RoleScrumMaster})).True()
		gt.B(t, cfg.HasUnilateralAdmitRight(types.Roles{types.RoleDeveloper})).False()
		gt.Array(t, cfg.ApproversForProject(1)).Equal([]int64{100, 200, 300})
		gt.Value(t, cfg.ApproversForProject(99)).Nil()
	})

	t.Run("elevated roles default when omitted", func(t *testing.T) {
		path := writeConfig(t, `
[[team]]
project_id = 1
name = "payments"
member_ids = [100]
`)

		appCfg := gt.R1(config.LoadAppConfiguration(path)).NoError(t)
		cfg := appCfg.ToDomainWorkflowConfig()
		gt.B(t, cfg.HasUnilateralAdmitRight(types.Roles{types.RoleProductOwner})).True()
		gt.B(t, cfg.HasUnilateralAdmitRight(types.Roles{types.RoleScrumMaster})).False()
	})

	t.Run("unknown elevated role", func(t *testing.T) {
		path := writeConfig(t, `elevated_roles = ["ADMIN"]`)
		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("duplicate team project", func(t *testing.T) {
		path := writeConfig(t, `
[[team]]
project_id = 1
name = "a"

[[team]]
project_id = 1
name = "b"
`)
		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("missing team name", func(t *testing.T) {
		path := writeConfig(t, `
[[team]]
project_id = 1
`)
		_, err := config.LoadAppConfiguration(path)
		gt.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
	})
}
