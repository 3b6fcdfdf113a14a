// Package role holds the fixed role hierarchy and the authorization gate.
// The ordering is total: a higher level subsumes every lower one.
package role

import "errors"

// ErrUnknownRole is returned for any role name outside the fixed set.
// Callers must treat it as a configuration error, never a silent default.
var ErrUnknownRole = errors.New("role: unknown role name")

// Role names, highest privilege first
const (
	SuperAdmin          = "SuperAdmin"
	TenantAdmin         = "TenantAdmin"
	Admin               = "Admin"
	ReliabilityEngineer = "ReliabilityEngineer"
	Planner             = "Planner"
	Supervisor          = "Supervisor"
	Technician          = "Technician"
	Viewer              = "Viewer"
)

// LevelClaimType is the claim key carrying a role's numeric level
const LevelClaimType = "role_level"

// levels encodes the fixed total order
var levels = map[string]int{
	SuperAdmin:          80,
	TenantAdmin:         70,
	Admin:               60,
	ReliabilityEngineer: 50,
	Planner:             40,
	Supervisor:          30,
	Technician:          20,
	Viewer:              10,
}

// All lists the fixed role set in descending privilege order
var All = []string{
	SuperAdmin,
	TenantAdmin,
	Admin,
	ReliabilityEngineer,
	Planner,
	Supervisor,
	Technician,
	Viewer,
}

// Level returns the numeric hierarchy level of a role name
func Level(name string) (int, error) {
	level, ok := levels[name]
	if !ok {
		return 0, ErrUnknownRole
	}
	return level, nil
}

// IsCrossTenant reports whether a role is unconstrained by tenant scope
func IsCrossTenant(name string) bool {
	return name == SuperAdmin || name == TenantAdmin
}

// Authorize reports whether a holder of held roles may perform an action
// requiring one of the given roles. The action is permitted when the
// holder has a required role outright, or any role whose level is strictly
// above the minimum required level ("higher subsumes lower").
func Authorize(held []string, required ...string) (bool, error) {
	if len(required) == 0 {
		return true, nil
	}

	minRequired := 0
	for i, name := range required {
		level, err := Level(name)
		if err != nil {
			return false, err
		}
		if i == 0 || level < minRequired {
			minRequired = level
		}
	}

	for _, name := range held {
		level, err := Level(name)
		if err != nil {
			return false, err
		}
		for _, want := range required {
			if name == want {
				return true, nil
			}
		}
		if level > minRequired {
			return true, nil
		}
	}

	return false, nil
}

// Primary picks a user's primary role from an assigned set: the first
// match walking the hierarchy from the top, Viewer when none match.
func Primary(assigned []string) string {
	for _, name := range All {
		for _, have := range assigned {
			if have == name {
				return name
			}
		}
	}
	return Viewer
}
