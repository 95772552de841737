package engine

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// codeAnywhere decides whether a cell is compound at all.
	codeAnywhere = regexp.MustCompile(`\d+-\d+-[A-Z0-9]+`)
	// fullCode matches one complete <prefix>-<sequence>-<suffix> code.
	fullCode = regexp.MustCompile(`^(\d+)-(\d+)-([A-Z0-9]+)$`)
	// digitsOnly matches a bare sequence number inside a compound group.
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// ExpandOrderCodes expands a single order-status cell into individual order
// codes. A compound cell like "100-5-AB/6/7" shares its prefix and suffix
// across the group and yields 100-5-AB, 100-6-AB, 100-7-AB.
//
// Output codes are uppercased and deduplicated preserving first-seen order,
// which keeps downstream first-match joins deterministic. Blank or "nan"
// cells yield nil; a cell with no recognizable code pattern is returned
// whole as a single literal code.
func ExpandOrderCodes(cell string) []string {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	if !codeAnywhere.MatchString(s) {
		return []string{strings.ToUpper(s)}
	}

	var codes []string
	for _, token := range strings.Fields(s) {
		if !strings.Contains(token, "/") {
			codes = append(codes, token)
			continue
		}
		parts := strings.Split(token, "/")
		head := strings.TrimSpace(parts[0])
		if head != "" {
			codes = append(codes, head)
		}
		m := fullCode.FindStringSubmatch(head)
		for _, part := range parts[1:] {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			switch {
			case m != nil && digitsOnly.MatchString(part):
				codes = append(codes, fmt.Sprintf("%s-%s-%s", m[1], part, m[3]))
			default:
				codes = append(codes, part)
			}
		}
	}

	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(c)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
