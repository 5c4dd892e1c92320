package domain

import (
	"fmt"
	"path/filepath"
)

// Layout selects the destination directory shape below the target root:
//
//	{}                → <target>/YYYY/MM
//	{NoYear}          → <target>/YYYY-MM
//	{Daily}           → <target>/YYYY/MM/DD
//	{Daily, NoYear}   → <target>/YYYY-MM/DD
type Layout struct {
	Daily  bool
	NoYear bool
}

// PlanDir returns the directory a file captured on date belongs in. It is a
// pure computation; nothing is created on disk.
func (l Layout) PlanDir(target string, date CaptureDate) string {
	parts := make([]string, 0, 3)
	parts = append(parts, target)
	if l.NoYear {
		parts = append(parts, fmt.Sprintf("%04d-%02d", date.Year, date.Month))
	} else {
		parts = append(parts, fmt.Sprintf("%04d", date.Year), fmt.Sprintf("%02d", date.Month))
	}
	if l.Daily {
		parts = append(parts, fmt.Sprintf("%02d", date.Day))
	}
	return filepath.Join(parts...)
}
