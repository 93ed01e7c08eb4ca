package git

import "fmt"

// ResolutionError reports a revision specifier that does not name a commit
// in the local repository.
type ResolutionError struct {
	Spec string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot resolve revision %q", e.Spec)
	}
	return fmt.Sprintf("cannot resolve revision %q: %v", e.Spec, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UnknownBackendError is returned for a backend name other than "go-git" or "git".
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown repository backend %q (expected go-git or git)", e.Backend)
}
