package services

// ViewState is the top-level screen the client is showing.
type ViewState string

const (
	ViewLoading        ViewState = "LOADING"
	ViewFeed           ViewState = "FEED"
	ViewAdminDashboard ViewState = "ADMIN_DASHBOARD"
)

// ResolveViewState restores the persisted view once the user and the admin
// allow-list have resolved. LOADING is never persisted, only shown while
// auth is unresolved. A persisted ADMIN_DASHBOARD restores as FEED until
// the allow-list confirms the user, which gives the deferred FEED->ADMIN
// upgrade when the allow-list arrives after restoration.
func ResolveViewState(persisted ViewState, authResolved, allowListLoaded, isAdmin bool) ViewState {
	if !authResolved {
		return ViewLoading
	}
	if persisted == ViewAdminDashboard {
		if !allowListLoaded {
			return ViewFeed
		}
		if isAdmin {
			return ViewAdminDashboard
		}
		return ViewFeed
	}
	return ViewFeed
}

// PersistableViewState filters out states that must not survive a reload.
func PersistableViewState(state ViewState) (ViewState, bool) {
	if state == ViewLoading {
		return "", false
	}
	return state, true
}
