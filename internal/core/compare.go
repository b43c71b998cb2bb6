package core

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compare reports whether a decrypted value matches the expected text.
// When they differ it returns a unified diff from expected to actual.
func Compare(label, expected, actual string) (bool, string) {
	if expected == actual {
		return true, ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	a, b, lineArray := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(expected, diffs)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- expected/%s\n", label))
	result.WriteString(fmt.Sprintf("+++ decrypted/%s\n", label))
	result.WriteString(dmp.PatchToText(patches))

	return false, result.String()
}
