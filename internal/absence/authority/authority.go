// Package authority is the single place where role strings are interpreted.
// It maps an actor's role set to the approval stages the actor may decide.
// Every stage-authorization check in the system goes through a Resolver;
// no other package may test role membership.
package authority

import (
	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
)

// StageSet is the set of stages a role set authorizes.
type StageSet map[models.Stage]struct{}

// Contains reports whether the set covers the given stage.
func (s StageSet) Contains(stage models.Stage) bool {
	_, ok := s[stage]
	return ok
}

// Resolver answers authorizedStages lookups from a static table. It is a
// pure lookup with no side effects; unknown roles resolve to the empty set
// (fails closed).
type Resolver struct {
	table map[id.Role][]models.Stage
}

// defaultTable is the compiled-in authority configuration. Combined roles
// cover contiguous stage runs; admin covers all decidable stages.
func defaultTable() map[id.Role][]models.Stage {
	return map[id.Role][]models.Stage{
		id.RoleSupervisor: {models.StageSupervisor},
		id.RoleManager:    {models.StageManager},
		id.RoleHR:         {models.StageHR},
		id.RolePayroll:    {models.StagePayroll},
		id.RoleSupervisorManager: {
			models.StageSupervisor,
			models.StageManager,
		},
		id.RoleHRPayroll: {
			models.StageHR,
			models.StagePayroll,
		},
		id.RoleAdmin: {
			models.StageSupervisor,
			models.StageManager,
			models.StageHR,
			models.StagePayroll,
		},
	}
}

// NewResolver returns a Resolver over the compiled-in table.
func NewResolver() *Resolver {
	return &Resolver{table: defaultTable()}
}

// NewResolverFromConfig returns a Resolver whose table is the compiled-in
// defaults overlaid with cfg. An empty config behaves like NewResolver.
func NewResolverFromConfig(cfg Config) (*Resolver, error) {
	table := defaultTable()
	for role, stages := range cfg.Roles {
		parsed := make([]models.Stage, 0, len(stages))
		for _, s := range stages {
			stage, err := models.ParseStage(s)
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, stage)
		}
		table[id.Role(role)] = parsed
	}
	return &Resolver{table: table}, nil
}

// AuthorizedStages returns the union of stages each held role authorizes.
func (r *Resolver) AuthorizedStages(roles []id.Role) StageSet {
	set := make(StageSet)
	for _, role := range roles {
		for _, stage := range r.table[role] {
			set[stage] = struct{}{}
		}
	}
	return set
}
