// Package version provides version information for the taskpane CLI.
// These values are set at build time using ldflags.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.2.3")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "none"

	// Date is the build date
	Date = "unknown"
)

// releaseURL is the GitHub endpoint for the latest release.
var releaseURL = "https://api.github.com/repos/stephenmfriend/taskpane/releases/latest"

// Info returns a formatted version string
func Info() string {
	return fmt.Sprintf("taskpane %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, runtime.Version())
}

// Short returns just the version number
func Short() string {
	return Version
}

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdate asks GitHub for the latest release. It returns the latest
// version and whether it is newer than the running one. Development builds
// and any network failure report no update.
func CheckForUpdate() (latestVersion string, updateAvailable bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return checkForUpdate(ctx, http.DefaultClient, releaseURL, Version)
}

func checkForUpdate(ctx context.Context, hc *http.Client, url, current string) (string, bool) {
	if current == "dev" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := hc.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	return latest, compareVersions(latest, strings.TrimPrefix(current, "v")) > 0
}

// compareVersions compares two dotted version strings numerically.
// Returns 1 if a > b, -1 if a < b, 0 if equal. Missing or non-numeric parts
// count as 0, so "1.2" equals "1.2.0".
func compareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := 0; i < max(len(aParts), len(bParts)); i++ {
		aNum, bNum := part(aParts, i), part(bParts, i)
		switch {
		case aNum > bNum:
			return 1
		case aNum < bNum:
			return -1
		}
	}
	return 0
}

func part(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	s := parts[i]
	if j := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); j >= 0 {
		s = s[:j]
	}
	n, _ := strconv.Atoi(s)
	return n
}
