package document

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout matches the short date the original front end produced.
const dateLayout = "1/2/2006"

// Render produces the full document text for a type and field set.
// It is pure: the only time source is the now argument, captured once by
// the caller. Empty fields render as bracketed placeholders so the output
// never shows a blank slot. Line 0 is always blank and line 1 is the
// uppercase title; the export surface and the resume flow both rely on
// that position.
func Render(t Type, f Fields, now time.Time) string {
	date := now.Format(dateLayout)

	name := orPlaceholder(f.FullName, "[Your Name]")
	address := orPlaceholder(f.Address, "[Address]")
	city := orPlaceholder(f.City, "[City]")
	state := orPlaceholder(f.State, "[State]")
	pincode := orPlaceholder(f.Pincode, "[Pincode]")

	switch t {
	case TypeAffidavit:
		purpose := orPlaceholder(f.Purpose, "[Purpose]")
		details := orPlaceholder(f.Details,
			"That the contents of this affidavit are true and correct to the best of my knowledge and belief and nothing material has been concealed therefrom.")
		return fmt.Sprintf(`
AFFIDAVIT

I, %s, son/daughter of [Father's Name], aged [Age] years, resident of %s, %s, %s, %s, do hereby solemnly affirm and declare as follows:

1. That I am the deponent in this affidavit and am fully competent to swear this affidavit.
2. That I am submitting this affidavit for the purpose of %s.
3. %s

I solemnly affirm that the contents of this affidavit are true to the best of my knowledge and belief and nothing has been concealed therein and that I am fully aware that I am liable for action under the law if any information provided herein is found to be false.

Date: %s
Place: %s

Deponent
`, name, address, city, state, pincode, purpose, details, date, city)

	case TypeComplaintLetter:
		subject := orPlaceholder(f.Purpose, "[Subject of Complaint]")
		details := orPlaceholder(f.Details,
			"Please provide details of your complaint here, including relevant dates, locations, and persons involved. Be specific about what happened and how it has affected you.")
		return fmt.Sprintf(`
COMPLAINT LETTER

From:
%s
%s
%s, %s - %s

Date: %s

To:
[Recipient Name]
[Recipient Designation]
[Organization Name]
[Organization Address]

Subject: Complaint regarding %s

Dear Sir/Madam,

I am writing this letter to bring to your attention %s.

%s

I request you to look into this matter at the earliest and take appropriate action. I am available for any further information or clarification that you may require.

Thank you for your attention to this matter.

Yours sincerely,

%s
Contact: [Your Phone Number]
Email: [Your Email Address]
`, name, address, city, state, pincode, date, subject, subject, details, name)

	default:
		purpose := orPlaceholder(f.Purpose, "[Purpose]")
		details := orPlaceholder(f.Details,
			"[Please provide detailed information relevant to this document]")
		return fmt.Sprintf(`
%s

Date: %s

From:
%s
%s
%s, %s - %s

Purpose: %s

Details:
%s

This document is prepared for the purpose mentioned above and contains information provided by the undersigned.

Signed,

%s
Date: %s
Place: %s
`, strings.ToUpper(t.Label()), date, name, address, city, state, pincode, purpose, details, name, date, city)
	}
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
