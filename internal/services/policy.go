package services

import "github.com/emsteam/ems-api/internal/models"

var (
	ErrAdminOnly          = newError(ErrForbidden, "only admin can perform this action")
	ErrNotTaskAssignee    = newError(ErrForbidden, "you cannot modify this task")
	ErrFileAccessDenied   = newError(ErrForbidden, "access denied")
	ErrCannotDismissAdmin = newError(ErrForbidden, "cannot dismiss another admin")
)

// Principal is the authenticated caller as carried by the bearer token.
type Principal struct {
	UserID uint64
	Role   models.Role
}

// IsAdmin reports whether the caller holds the admin role. Unknown roles are
// never admins.
func (p Principal) IsAdmin() bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleEmployee:
		return false
	default:
		return false
	}
}

// RequireAdmin guards the admin-only capabilities: task creation, the
// overview and summary, the employee directory, file deletion and listing,
// and task drafting.
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// AuthorizeTaskWrite allows status updates and uploads by the task's assignee
// or by any admin.
func AuthorizeTaskWrite(p Principal, task *models.Task) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleEmployee:
		if task.AssignedToID == p.UserID {
			return nil
		}
		return ErrNotTaskAssignee
	default:
		return ErrNotTaskAssignee
	}
}

// AuthorizeFileRead allows admins and the uploader to read file metadata.
func AuthorizeFileRead(p Principal, file *models.FileAttachment) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleEmployee:
		if file.UploadedByID == p.UserID {
			return nil
		}
		return ErrFileAccessDenied
	default:
		return ErrFileAccessDenied
	}
}

// AuthorizeDismiss allows an admin to dismiss employees only.
func AuthorizeDismiss(p Principal, target *models.User) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}

	switch target.Role {
	case models.RoleEmployee:
		return nil
	case models.RoleAdmin:
		return ErrCannotDismissAdmin
	default:
		return ErrCannotDismissAdmin
	}
}

// taskVisibility returns the assignee filter for task listings: nil for
// admins, the caller's own id for everyone else.
func taskVisibility(p Principal) *uint64 {
	if p.IsAdmin() {
		return nil
	}
	id := p.UserID
	return &id
}
