package document

import (
	"strconv"
	"strings"
)

// Type identifies a document template. The numeric values match the
// route ids the front end has always used, so they are part of the API.
type Type int

const (
	TypeUnknown Type = iota
	TypeAffidavit
	TypeComplaintLetter
	TypeRTIApplication
	TypeLegalNotice
	TypePowerOfAttorney
	TypeWill
)

var labels = map[Type]string{
	TypeAffidavit:       "Affidavit",
	TypeComplaintLetter: "Complaint Letter",
	TypeRTIApplication:  "RTI Application",
	TypeLegalNotice:     "Legal Notice",
	TypePowerOfAttorney: "Power of Attorney",
	TypeWill:            "Will",
}

// Label returns the human-readable name for the type. Unknown or
// unmapped types read as a plain "Document".
func (t Type) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return "Document"
}

// ParseType converts a route-level id ("1".."6") into a Type.
// Anything else maps to TypeUnknown, which renders the generic template.
func ParseType(id string) Type {
	n, err := strconv.Atoi(id)
	if err != nil || n < int(TypeAffidavit) || n > int(TypeWill) {
		return TypeUnknown
	}
	return Type(n)
}

// TypeFromLabel recovers a Type from a stored human-readable label by
// substring match. Saved drafts carry only the label, so this is how the
// list flow finds the template to resume with.
func TypeFromLabel(label string) Type {
	for t := TypeAffidavit; t <= TypeWill; t++ {
		if strings.Contains(label, labels[t]) {
			return t
		}
	}
	return TypeUnknown
}

// Fields holds everything the wizard collects. Empty string means
// "not provided"; rendering substitutes a placeholder, never a gap.
type Fields struct {
	FullName     string `json:"fullName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	DocumentType string `json:"documentType"`
	Purpose      string `json:"purpose"`
	Details      string `json:"details"`
}
