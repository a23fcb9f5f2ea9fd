package util

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// RequiredProviderVersion is the minimum version of a remote telemetry provider.
	RequiredProviderVersion string = "v0.2.0"
	// SupportedSchemaMajor is the dataset schema major version this build reads.
	SupportedSchemaMajor string = "v1"
)

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func CheckProviderVersion(toCheck string) bool {
	toCheck = canonical(toCheck)
	if !semver.IsValid(toCheck) {
		return false
	}
	return semver.Compare(toCheck, RequiredProviderVersion) >= 0
}

// CheckSchemaVersion accepts every valid version with the supported major.
func CheckSchemaVersion(toCheck string) error {
	v := canonical(toCheck)
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid schema version %q", toCheck)
	}
	if semver.Major(v) != SupportedSchemaMajor {
		return fmt.Errorf("unsupported schema version %s (supported: %s.x)", toCheck, SupportedSchemaMajor)
	}
	return nil
}
