package cold_archiving

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidEvent            = errors.New("invalid event")
	ErrConfigurationMissing    = errors.New("configuration missing")
	ErrConfigurationMalformed  = errors.New("configuration malformed")
	ErrInstanceTagIncomplete   = errors.New("instance tag incomplete")
	ErrInstanceEndpointMissing = errors.New("instance endpoint missing")
	ErrUpstreamService         = errors.New("upstream service error")
)

// DispatchError classifies a failure with one of the Err* kinds. Both the
// kind and the cause are reachable through errors.Is and errors.As.
type DispatchError struct {
	Kind     error
	Instance string
	Err      error
}

func (e *DispatchError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("%v: instance %s: %v", e.Kind, e.Instance, e.Err)
	}

	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
