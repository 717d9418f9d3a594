package cold_archiving

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Event is the payload delivered by the scheduler.
type Event struct {
	RetentionDays RetentionDays `json:"RetentionDays"`
}

// RetentionDays is forwarded to the archiving job verbatim. It accepts a JSON
// string or number; numbers keep their literal form.
type RetentionDays string

func (r *RetentionDays) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(ErrInvalidEvent, err.Error())
		}
		*r = RetentionDays(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(ErrInvalidEvent, "RetentionDays must be a string or a number, got %s", data)
	}

	*r = RetentionDays(data)
	return nil
}

func (r RetentionDays) String() string {
	return string(r)
}

func (e Event) Validate() error {
	if e.RetentionDays == "" {
		return errors.Wrap(ErrInvalidEvent, "RetentionDays is required")
	}

	return nil
}
