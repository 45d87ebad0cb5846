package store

import "errors"

var (
	ErrCredentialList = errors.New("credential list unavailable")
	ErrBootPersist    = errors.New("boot counter not persisted")
	ErrLogHeader      = errors.New("audit log header not ensured")
	ErrAuditAppend    = errors.New("audit entry not appended")
)
