package source

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

var monthDirPattern = regexp.MustCompile(`^\d{4} \d{2}$`)

// IsMonthDir reports whether name looks like a "YYYY MM" month folder.
func IsMonthDir(name string) bool {
	return monthDirPattern.MatchString(name)
}

// ListMonths returns the "YYYY MM" sub-folders of root, newest first.
// A missing root yields no months.
func ListMonths(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var months []string
	for _, e := range entries {
		if e.IsDir() && IsMonthDir(e.Name()) {
			months = append(months, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// LatestMonth returns the newest month folder of root, or "".
func LatestMonth(root string) string {
	months := ListMonths(root)
	if len(months) == 0 {
		return ""
	}
	return months[0]
}

// DataDir picks the folder holding the workbooks: root/month when month is
// given, root/<latest month> when root has month folders, root otherwise.
func DataDir(root, month string) string {
	if month != "" {
		return filepath.Join(root, month)
	}
	if latest := LatestMonth(root); latest != "" {
		return filepath.Join(root, latest)
	}
	return root
}
