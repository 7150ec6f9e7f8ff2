package services

import "strings"

// ClassifyOrderNotes infers a repair/customize work category from free-form
// order notes. Best effort only: it feeds reporting and is allowed to
// return "unknown"; nothing in the order lifecycle reads the result.
func ClassifyOrderNotes(notes string) string {
	lower := strings.ToLower(notes)

	keywords := []struct {
		word     string
		category string
	}{
		{"zipper", "zipper"},
		{"button", "button"},
		{"bewang", "bewang"},
		{"lock", "lock"},
		{"patch", "patch"},
		{"thread", "thread"},
		{"hem", "hem"},
		{"alter", "alteration"},
		{"resize", "alteration"},
	}

	for _, kw := range keywords {
		if strings.Contains(lower, kw.word) {
			return kw.category
		}
	}
	return "unknown"
}
