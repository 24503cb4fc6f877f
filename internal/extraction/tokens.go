// =============================================================================
// Receipt Field Extractor - Token Mapper
// =============================================================================
//
// Two extraction modes are applied to marker lines:
//
//   POSITIONAL MODE (payment line):
//     The whole line is split on whitespace and every token is kept,
//     including the words of the marker itself. Token columns are named by
//     position (token_1, token_2, ...).
//
//   MARKER-RELATIVE MODE (establishment code, credit note, extras):
//     The line is split on the marker text; the text following the marker
//     is trimmed and only its first whitespace-delimited token is kept.
//
// =============================================================================

package extraction

import "strings"

// PositionalTokens splits a line into whitespace-delimited tokens.
func PositionalTokens(line string) []string {
	return strings.Fields(line)
}

// MarkerValue returns the first token following marker in line.
//
// PARAMETERS:
//   - line:   A line previously matched with FindLine.
//   - marker: The marker used to find the line.
//
// RETURNS:
//   - The first whitespace-delimited token after the marker. When the marker
//     occurs several times, only the text up to its second occurrence is
//     considered.
//   - false when the marker is not in the line or nothing follows it. The
//     caller omits the field instead of storing an empty value.
//
// Values that contain internal spaces are truncated to their first token.
func MarkerValue(line, marker string) (string, bool) {
	parts := strings.Split(line, marker)
	if len(parts) < 2 {
		return "", false
	}

	tokens := strings.Fields(parts[1])
	if len(tokens) == 0 {
		return "", false
	}

	return tokens[0], true
}
