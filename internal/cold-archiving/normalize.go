package cold_archiving

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var jobDefinitionRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+(:[0-9]+)?$`)

// queueName reduces a job queue ARN to the name after its last '/'.
func queueName(raw string) (string, error) {
	return afterLastSlash(raw)
}

// jobDefinitionName reduces a job definition ARN to name[:revision].
func jobDefinitionName(raw string) (string, error) {
	name, err := afterLastSlash(raw)
	if err != nil {
		return "", err
	}

	if !jobDefinitionRegex.MatchString(name) {
		return "", errors.Wrapf(ErrConfigurationMalformed, "job definition %q is not name[:revision]", raw)
	}

	return name, nil
}

func afterLastSlash(raw string) (string, error) {
	idx := strings.LastIndex(raw, "/")
	if idx < 0 {
		return "", errors.Wrapf(ErrConfigurationMalformed, "%q has no '/'", raw)
	}

	name := strings.TrimSpace(raw[idx+1:])
	if name == "" {
		return "", errors.Wrapf(ErrConfigurationMalformed, "%q ends with '/'", raw)
	}

	return name, nil
}
