package host

import "fmt"

// FetchError is returned when merged pull requests could not be fetched
// completely: transport and API failures, or a merged record missing a
// required commit reference.
type FetchError struct {
	Provider   Kind
	Repository string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch merged pull requests of %s from %s: %v", e.Repository, e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UnsupportedHostError is returned for a repository host no provider handles.
type UnsupportedHostError struct {
	Host string
}

func (e *UnsupportedHostError) Error() string {
	return fmt.Sprintf("unsupported host: %q", e.Host)
}

// UnavailableProviderError is returned when a provider was excluded from
// this build with a build tag.
type UnavailableProviderError struct {
	Provider Kind
	BuildTag string
}

func (e *UnavailableProviderError) Error() string {
	return fmt.Sprintf("%s support is not available in this build (built with -tags %s)", e.Provider, e.BuildTag)
}
