package model

// Action names a role-gated operation. Permission checks go through
// HasCapability instead of comparing role strings inline, so the table
// below is the single source of truth for who may do what.
type Action string

const (
	// Create new challenges.
	ActionCreateChallenge Action = "challenge:create"
	// End or otherwise moderate challenges owned by someone else.
	ActionModerateChallenge Action = "challenge:moderate"
	// List and verify submissions for challenges owned by someone else.
	ActionReviewSubmissions Action = "submission:review"
	// Manage user accounts (roles, disabling).
	ActionManageUsers Action = "user:manage"
)

var capabilities = map[Action][]UserRole{
	ActionCreateChallenge:   {Teacher, Admin, NGO, Institution},
	ActionModerateChallenge: {Admin},
	ActionReviewSubmissions: {Admin, NGO},
	ActionManageUsers:       {Admin},
}

// HasCapability reports whether the role is allowed to perform the action.
func HasCapability(role UserRole, action Action) bool {
	for _, r := range capabilities[action] {
		if r == role {
			return true
		}
	}
	return false
}
