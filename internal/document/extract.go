package document

import "strings"

// ExtractValue scans rendered document text for the first line containing
// "<label>:" and returns the trimmed remainder of that line. It returns ""
// when the label is absent, which is common: not every template emits every
// label. This is a best-effort, lossy inverse of Render — placeholder
// brackets, multi-line values and label tokens inside prose all defeat it —
// and it is used only to pre-populate the form on resume, never for
// anything correctness-critical. If the templates change shape, this must
// change with them.
func ExtractValue(content, label string) string {
	token := label + ":"
	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, token); idx >= 0 {
			return strings.TrimSpace(line[idx+len(token):])
		}
	}
	return ""
}

// ExtractFields recovers an approximate Fields from a rendered document.
func ExtractFields(content string) Fields {
	return Fields{
		FullName: ExtractValue(content, "Name"),
		Address:  ExtractValue(content, "Address"),
		City:     ExtractValue(content, "City"),
		State:    ExtractValue(content, "State"),
		Pincode:  ExtractValue(content, "Pincode"),
		Purpose:  ExtractValue(content, "Purpose"),
		Details:  ExtractValue(content, "Details"),
	}
}
