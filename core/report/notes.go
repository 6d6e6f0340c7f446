package report

import (
	"regexp"
	"strings"
	"time"
)

// Note lines are stamped with the en-US locale format the rest of the
// system already stores, e.g. "05/01/2025, 09:00 AM".
const noteTimeLayout = "01/02/2006, 03:04 PM"

// NoteTimestamp formats t the way note lines are stamped.
func NoteTimestamp(t time.Time) string {
	return t.Format(noteTimeLayout)
}

// NoteEntry is a single parsed note line. Section is empty for plain
// (untagged) notes. Entries are derived from the notes blob, never stored
// separately.
type NoteEntry struct {
	Timestamp string
	Section   SectionKey
	Text      string
}

var (
	markerRegex    = regexp.MustCompile(`\[REPORT-([A-Z]+)\]`)
	timestampRegex = regexp.MustCompile(`^\[([^\]]*)\]\s*`)
)

// AppendNote appends a timestamped note line to an existing notes blob.
// A non-zero section embeds its marker as the second bracketed token:
//
//	[05/01/2025, 09:00 AM] [REPORT-REFERRAL] Referred for ADHD screening
//
// Entries are separated by exactly one blank line. Text is stored verbatim;
// literal '[' / ']' inside it are not escaped.
func AppendNote(existing string, section SectionKey, text, timestamp string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(timestamp)
	b.WriteString("] ")
	if section != "" {
		b.WriteString(section.Marker())
		b.WriteString(" ")
	}
	b.WriteString(text)

	if existing == "" {
		return b.String()
	}
	return existing + "\n\n" + b.String()
}

// ParseNotes scans a notes blob line by line into structured entries.
// Blank lines are skipped. A line carrying a recognized section marker
// yields a tagged entry with everything up to and including the marker
// stripped; any other line yields a plain entry with only the leading
// timestamp stripped. Unrecognized markers are treated as plain text.
func ParseNotes(notes string) []NoteEntry {
	if notes == "" {
		return nil
	}

	var entries []NoteEntry
	for _, line := range strings.Split(notes, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var entry NoteEntry
		rest := line
		if m := timestampRegex.FindStringSubmatch(rest); m != nil {
			entry.Timestamp = m[1]
			rest = rest[len(m[0]):]
		}

		if loc := markerRegex.FindStringSubmatchIndex(line); loc != nil {
			if key, ok := ParseSectionKey(line[loc[2]:loc[3]]); ok {
				entry.Section = key
				entry.Text = strings.TrimSpace(line[loc[1]:])
				entries = append(entries, entry)
				continue
			}
		}

		entry.Text = strings.TrimSpace(rest)
		entries = append(entries, entry)
	}
	return entries
}

// ExtractSections recovers per-section text from a notes blob. All matches
// for a section accumulate in order, joined by a newline (the
// data-preserving policy). Lines without a recognized marker are ignored
// here; they remain visible only in the raw notes view. Markerless or empty
// input yields all sections empty.
func ExtractSections(notes string) map[SectionKey]string {
	sections := make(map[SectionKey]string, len(SectionKeys))
	for _, k := range SectionKeys {
		sections[k] = ""
	}

	for _, entry := range ParseNotes(notes) {
		if entry.Section == "" || entry.Text == "" {
			continue
		}
		if sections[entry.Section] == "" {
			sections[entry.Section] = entry.Text
		} else {
			sections[entry.Section] += "\n" + entry.Text
		}
	}
	return sections
}
