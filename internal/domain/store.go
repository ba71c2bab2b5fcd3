package domain

// SessionStore persists the identity session between runs.
// It is the only local state the client keeps on disk.
type SessionStore interface {
	LoadSession() (Option[Identity], error)
	SaveSession(identity Identity) error
	ClearSession() error
	Close() error
}
