// Package update checks whether a newer release is published.
package update

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/salmonumbrella/formkit/internal/transport"
)

// ReleasesURL is the latest-release document (var for testing).
var ReleasesURL = "https://api.github.com/repos/salmonumbrella/formkit/releases/latest"

// CheckTimeout bounds a single check.
const CheckTimeout = 5 * time.Second

// ErrDevBuild is returned by Check for unversioned builds.
var ErrDevBuild = errors.New("development build has no version to compare")

// Release is the subset of the release document we read.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult contains the result of a version check.
type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
}

// Check fetches the latest release and compares it with currentVersion.
func Check(ctx context.Context, hc *http.Client, currentVersion string) (*CheckResult, error) {
	if currentVersion == "dev" || currentVersion == "" {
		return nil, ErrDevBuild
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	var release Release
	if err := transport.GetJSON(ctx, hc, ReleasesURL, &release); err != nil {
		return nil, err
	}

	current := normalizeVersion(currentVersion)
	latest := normalizeVersion(release.TagName)

	result := &CheckResult{
		CurrentVersion: strings.TrimPrefix(currentVersion, "v"),
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result, nil
}

// CheckForUpdate is Check that never fails: any error yields nil.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	result, err := Check(ctx, nil, currentVersion)
	if err != nil {
		return nil
	}
	return result
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
