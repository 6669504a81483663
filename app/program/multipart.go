package program

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Workshops that run as multiple sittings are published one session per
// sitting ("Intro to Soldering - Part 1", "... Part 2"). The program
// view collapses each such family into a single card titled with the
// combined part range.
var workshopPartPattern = regexp.MustCompile(`(?i)^(.*?)(?:\s*[-:\x{2013}\x{2014}]\s*|\s+)Part\s+(\d+)\b.*$`)

type partGroup struct {
	index     int
	baseTitle string
	parts     map[int]bool
	count     int
}

// MergeMultipartWorkshops collapses multipart workshop families. Output
// preserves the position of each family's first occurrence; non-workshop
// sessions and workshops without a part marker pass through unchanged.
func MergeMultipartWorkshops(sessions []Session) []Session {
	if len(sessions) == 0 {
		return nil
	}

	output := make([]Session, 0, len(sessions))
	groups := make(map[string]*partGroup)

	for _, session := range sessions {
		if session.Category != "workshops" {
			output = append(output, session)
			continue
		}

		baseTitle, partNumber, ok := extractPartMeta(session.Title)
		if !ok {
			output = append(output, session)
			continue
		}

		signature := partSignature(session, baseTitle)
		group, exists := groups[signature]
		if !exists {
			group = &partGroup{
				index:     len(output),
				baseTitle: baseTitle,
				parts:     make(map[int]bool),
			}
			groups[signature] = group
			output = append(output, session)
		}
		group.count++
		if partNumber > 0 {
			group.parts[partNumber] = true
		}
		if exists && session.Order < output[group.index].Order {
			output[group.index].Order = session.Order
		}
	}

	for _, group := range groups {
		if group.count < 2 {
			continue
		}
		output[group.index].Title = mergedTitle(group)
	}

	return output
}

func extractPartMeta(title string) (baseTitle string, partNumber int, ok bool) {
	m := workshopPartPattern.FindStringSubmatch(title)
	if m == nil {
		return "", 0, false
	}
	baseTitle = strings.TrimSpace(m[1])
	if baseTitle == "" {
		return "", 0, false
	}
	partNumber, _ = strconv.Atoi(m[2])
	return baseTitle, partNumber, true
}

// partSignature identifies a workshop family: same base title,
// description, speaker lineup and raw type.
func partSignature(session Session, baseTitle string) string {
	names := make([]string, 0, len(session.Speakers))
	for _, sp := range session.Speakers {
		name := strings.ToLower(strings.TrimSpace(firstNonEmpty(sp.DisplayName, sp.Name)))
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return strings.Join([]string{
		strings.ToLower(baseTitle),
		strings.ToLower(collapseWhitespace(session.Description)),
		strings.Join(names, "|"),
		strings.ToLower(collapseWhitespace(session.RawType)),
	}, "|")
}

func mergedTitle(group *partGroup) string {
	parts := make([]int, 0, len(group.parts))
	for p := range group.parts {
		parts = append(parts, p)
	}
	sort.Ints(parts)

	if len(parts) == 0 {
		return group.baseTitle
	}

	sequential := true
	for i := 1; i < len(parts); i++ {
		if parts[i] != parts[i-1]+1 {
			sequential = false
			break
		}
	}

	var label string
	switch {
	case len(parts) == 1:
		label = strconv.Itoa(parts[0])
	case sequential:
		label = fmt.Sprintf("%d-%d", parts[0], parts[len(parts)-1])
	default:
		joined := make([]string, len(parts))
		for i, p := range parts {
			joined[i] = strconv.Itoa(p)
		}
		label = strings.Join(joined, ", ")
	}

	return fmt.Sprintf("%s (Part %s)", group.baseTitle, label)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
