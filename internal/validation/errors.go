package validation

import (
	"fmt"
	"strings"
)

// CatalogError lists every problem found in a catalog rejected for import.
type CatalogError struct {
	Problems []string
}

func (e *CatalogError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "catalog rejected: %d problem(s)", len(e.Problems))
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}
	return sb.String()
}

func (e *CatalogError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
