package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// StoreStatus contains git integration status for a store file
type StoreStatus struct {
	IsRepo  bool
	Path    string
	Tracked bool
	Ignored bool
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckStore checks git status of the store file at storePath
func CheckStore(storePath string) *StoreStatus {
	dir := filepath.Dir(storePath)
	name := filepath.Base(storePath)

	status := &StoreStatus{Path: storePath}
	if !IsGitRepo(dir) {
		return status
	}
	status.IsRepo = true
	status.Tracked = IsTracked(dir, name)
	status.Ignored = IsIgnored(dir, name)

	return status
}

// FormatStoreStatus formats git status for display
func FormatStoreStatus(status *StoreStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	switch {
	case status.Tracked:
		result.WriteString(fmt.Sprintf("   note: %s is tracked by git, entry names are visible in history\n", status.Path))
	case status.Ignored:
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", status.Path))
	default:
		result.WriteString(fmt.Sprintf("   warning: %s is neither tracked nor ignored (add to .gitignore or commit it)\n", status.Path))
	}

	return result.String()
}
