package export

import "strings"

// Page geometry in millimeters on A4 portrait, matching the layout the
// PDF export has always produced.
const (
	topMargin    = 20.0
	leftMargin   = 15.0
	centerX      = 105.0
	lineHeight   = 7.0
	blankSpacing = 5.0
	headingSpace = 5.0
	titleSpacing = 15.0
	pageBottom   = 270.0

	titleSize = 16.0
	bodySize  = 12.0

	// maxLineChars approximates the 180mm content width at the body size.
	maxLineChars = 90
)

// Block is one positioned run of text on a page.
type Block struct {
	Text     string
	X        float64
	Y        float64
	Size     float64
	Bold     bool
	Centered bool
}

// Page is an ordered set of positioned blocks.
type Page struct {
	Blocks []Block
}

// Paginate lays out a rendered document as pages of positioned text.
// Line 1 of the document is the title, centered large and bold; lines
// that are entirely their own uppercase form and longer than 3 characters
// are headings (the length guard keeps short labels and acronyms in body
// style). Long lines wrap to the content width and the cursor starts a
// new page past the bottom threshold.
func Paginate(content string) []Page {
	lines := strings.Split(content, "\n")

	pages := []Page{{}}
	cur := 0
	y := topMargin

	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		pages[cur].Blocks = append(pages[cur].Blocks, Block{
			Text:     strings.TrimSpace(lines[1]),
			X:        centerX,
			Y:        y,
			Size:     titleSize,
			Bold:     true,
			Centered: true,
		})
		y += titleSpacing
	}

	for i := 2; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			y += blankSpacing
			continue
		}

		heading := line == strings.ToUpper(line) && len(line) > 3
		if heading {
			y += headingSpace
		}

		for _, seg := range wrapLine(line, maxLineChars) {
			pages[cur].Blocks = append(pages[cur].Blocks, Block{
				Text: seg,
				X:    leftMargin,
				Y:    y,
				Size: bodySize,
				Bold: heading,
			})
			y += lineHeight
		}

		if y > pageBottom {
			pages = append(pages, Page{})
			cur++
			y = topMargin
		}
	}

	return pages
}

// wrapLine splits a line into segments of at most limit characters,
// breaking on spaces where possible.
func wrapLine(line string, limit int) []string {
	if len(line) <= limit {
		return []string{line}
	}

	var segs []string
	words := strings.Fields(line)
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && cur.Len()+1+len(w) > limit {
			segs = append(segs, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	if len(segs) == 0 {
		segs = []string{line}
	}
	return segs
}
