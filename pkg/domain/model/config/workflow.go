package config

import "github.com/stride-hq/stride/pkg/domain/types"

// Team represents a team configuration. MemberIDs is the default
// approver set used when an admission request does not name one.
type Team struct {
	ProjectID int64
	Name      string
	MemberIDs []int64
}

// WorkflowConfig holds the admission workflow configuration
type WorkflowConfig struct {
	ElevatedRoles []types.Role
	Teams         []Team
}

// DefaultWorkflowConfig returns the configuration used when no config
// file is supplied: only the product owner may admit unilaterally, and
// every admission request must name its approver set.
func DefaultWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		ElevatedRoles: []types.Role{types.RoleProductOwner},
	}
}

// HasUnilateralAdmitRight reports whether the role set carries the
// authority to admit an item into an iteration without a quorum
func (c *WorkflowConfig) HasUnilateralAdmitRight(roles types.Roles) bool {
	return roles.HasAny(c.ElevatedRoles...)
}

// ApproversForProject returns the configured default approver set for a
// project, or nil if no team covers it
func (c *WorkflowConfig) ApproversForProject(projectID int64) []int64 {
	for _, team := range c.Teams {
		if team.ProjectID == projectID {
			return team.MemberIDs
		}
	}
	return nil
}
