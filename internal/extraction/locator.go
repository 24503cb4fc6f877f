// =============================================================================
// Receipt Field Extractor - Marker Line Locator
// =============================================================================
//
// The locator scans the lines of a page for the first line that contains a
// marker label. A missing marker is not an error: it only means the field
// the marker introduces is absent from this document.
//
// MATCHING:
//   Plain substring containment. Case and accents must match exactly; no
//   folding or normalisation happens here.
//
// =============================================================================

package extraction

import "strings"

// FindLine returns the first line containing marker.
//
// PARAMETERS:
//   - lines:  The page lines, in document order.
//   - marker: The label to look for.
//
// RETURNS:
//   - The lowest-index matching line.
//   - false if no line contains the marker.
func FindLine(lines []string, marker string) (string, bool) {
	for _, line := range lines {
		if strings.Contains(line, marker) {
			return line, true
		}
	}
	return "", false
}
