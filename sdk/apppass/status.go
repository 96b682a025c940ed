package apppass

// Status classifies the outcome of an App Pass entitlement check.
type Status string

const (
	// StatusOK indicates the user holds an active App Pass.
	StatusOK Status = "ok"
	// StatusNoPermission indicates the host runtime holds no grant for the status endpoint's origin.
	StatusNoPermission Status = "no_perm"
	// StatusNoAppPass indicates the user is known to the service but holds no active App Pass.
	StatusNoAppPass Status = "no_apppass"
	// StatusExtensionInactive indicates the calling extension is not active for App Pass use.
	StatusExtensionInactive Status = "ext_inactive"
	// StatusErr indicates the status endpoint could not be reached within the retry budget.
	StatusErr Status = "err"
	// StatusUnknownError indicates a response was received but its status could not be interpreted.
	StatusUnknownError Status = "unknown_error"
)

// Known reports whether s is one of the enumerated status values.
func (s Status) Known() bool {
	switch s {
	case StatusOK, StatusNoPermission, StatusNoAppPass, StatusExtensionInactive, StatusErr, StatusUnknownError:
		return true
	}
	return false
}
