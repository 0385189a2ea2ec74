package parser

import "strings"

// Segmenter slices canonical text into one block per transaction.
type Segmenter struct {
	anchors AnchorMatcher
}

// NewSegmenter returns a segmenter using the given anchor matcher, or the
// default month-name date matcher when nil.
func NewSegmenter(anchors AnchorMatcher) *Segmenter {
	if anchors == nil {
		anchors = NewDateMatcher()
	}
	return &Segmenter{anchors: anchors}
}

// Segment returns the transaction blocks of text in document order. Each
// block runs from one anchor to the next, or to the end of text. Text
// before the first anchor is dropped.
func (s *Segmenter) Segment(text string) []string {
	starts := s.anchors.FindAnchors(text)
	blocks := make([]string, 0, len(starts))

	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		block := strings.TrimSpace(text[start:end])
		if block == "" || partialHeaderPattern.MatchString(block) {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
