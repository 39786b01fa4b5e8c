package model

// GlobalRole 平台级角色，与团队内角色无关
type GlobalRole string

const (
	GlobalRoleUser      GlobalRole = "USER"
	GlobalRoleModerator GlobalRole = "MODERATOR"
	GlobalRoleAdmin     GlobalRole = "ADMIN"
)

func (r GlobalRole) Valid() bool {
	switch r {
	case GlobalRoleUser, GlobalRoleModerator, GlobalRoleAdmin:
		return true
	}
	return false
}

func (r GlobalRole) IsAdmin() bool {
	return r == GlobalRoleAdmin
}

// TeamRole 团队内角色，只在所属团队内生效
type TeamRole string

const (
	TeamRoleUser      TeamRole = "USER"
	TeamRoleModerator TeamRole = "MODERATOR"
	TeamRoleAdmin     TeamRole = "ADMIN"
)

func (r TeamRole) Valid() bool {
	switch r {
	case TeamRoleUser, TeamRoleModerator, TeamRoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role may manage the team's events.
func (r TeamRole) Elevated() bool {
	return r == TeamRoleModerator || r == TeamRoleAdmin
}
