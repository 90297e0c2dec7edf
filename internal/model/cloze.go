package model

import (
	"regexp"
	"strconv"
)

var clozePattern = regexp.MustCompile(`\{\{c(\d+)::(.*?)\}\}`)

// ParseClozeExtractions pulls the numbered deletions out of cloze markup in
// document order. "The {{c1::mitochondria}} is the {{c2::powerhouse}}"
// yields [{1 mitochondria} {2 powerhouse}].
func ParseClozeExtractions(sourceText string) ClozeExtractions {
	matches := clozePattern.FindAllStringSubmatch(sourceText, -1)
	if len(matches) == 0 {
		return nil
	}
	extractions := make(ClozeExtractions, 0, len(matches))
	for _, m := range matches {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		extractions = append(extractions, ClozeExtraction{Number: number, Word: m[2]})
	}
	return extractions
}
