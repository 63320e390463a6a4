package domain

// ResolvePermission resolves what a principal may do with a list.
//
// Resolution order: owner beats everything; otherwise the stored
// collaborator permission; otherwise none. There are no transitive or
// role-inherited permissions - every list's access map is independent
// and flat.
func ResolvePermission(list *TaskList, userID string) Permission {
	if list.OwnerID == userID {
		return PermissionOwner
	}

	if shared, ok := list.SharedWith[userID]; ok {
		switch shared.Permission {
		case SharePermissionEdit:
			return PermissionEdit
		case SharePermissionView:
			return PermissionView
		}
	}

	return PermissionNone
}

// CanEdit reports whether the permission allows mutating tasks on the list.
func (p Permission) CanEdit() bool {
	return p == PermissionOwner || p == PermissionEdit
}

// CanView reports whether the permission allows reading the list at all.
func (p Permission) CanView() bool {
	return p != PermissionNone
}

// CanShare reports whether the permission allows inviting collaborators.
// Only the owner may share.
func (p Permission) CanShare() bool {
	return p == PermissionOwner
}

// CanDelete reports whether the permission allows deleting the list.
// Only the owner may delete.
func (p Permission) CanDelete() bool {
	return p == PermissionOwner
}
