// ABOUTME: Version command printing build information and the catalog it ships
// ABOUTME: Supports --format json for scripting
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
	Types     int    `json:"types,omitempty"`
	Questions int    `json:"questions,omitempty"`
}

// SetVersion records build information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the build version, commit, date and the size of the personality catalog.`,
		RunE:  runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo
	info.GoVersion = runtime.Version()

	// The catalog is informational; a broken custom catalog should not hide the version
	if a, err := loadBase(); err == nil {
		info.Types = len(a.Catalog.Types())
		info.Questions = len(a.Catalog.Questions())
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, info)
	}

	fmt.Fprintf(out, "Pawsonality %s\n", info.Version)
	fmt.Fprintf(out, "Commit: %s\n", info.Commit)
	fmt.Fprintf(out, "Built:  %s (%s)\n", info.Date, info.GoVersion)
	if info.Types > 0 {
		fmt.Fprintf(out, "Catalog: %d types, %d questions\n", info.Types, info.Questions)
	}
	return nil
}
