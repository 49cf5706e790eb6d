// Package access decides whether a user may act on a group.
package access

import (
	"connectrpc.com/connect"

	"github.com/mmynk/wildpay/internal/models"
)

// Result is the outcome of a group access check.
type Result int

const (
	OK Result = iota
	GroupNotFound
	NotAuthenticated
	NotAMember
)

// CheckGroupRequest checks, in order, that the group exists, that a user is
// signed in, and that the user belongs to the group.
func CheckGroupRequest(group *models.Group, userID string) Result {
	switch {
	case group == nil:
		return GroupNotFound
	case userID == "":
		return NotAuthenticated
	case !group.HasMember(userID):
		return NotAMember
	default:
		return OK
	}
}

// Allowed reports whether the check passed.
func (r Result) Allowed() bool {
	return r == OK
}

// Message is the user-facing explanation for a failed check.
func (r Result) Message() string {
	switch r {
	case GroupNotFound:
		return "the group you are looking for does not exist"
	case NotAuthenticated:
		return "you are not signed in"
	case NotAMember:
		return "you cannot access this group because you are not a member"
	default:
		return ""
	}
}

// Code maps the result to a Connect error code.
// Non-members get NotFound so group IDs cannot be probed.
func (r Result) Code() connect.Code {
	switch r {
	case NotAuthenticated:
		return connect.CodeUnauthenticated
	case GroupNotFound, NotAMember:
		return connect.CodeNotFound
	default:
		return 0
	}
}

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case GroupNotFound:
		return "group_not_found"
	case NotAuthenticated:
		return "not_authenticated"
	case NotAMember:
		return "not_a_member"
	default:
		return "unknown"
	}
}
