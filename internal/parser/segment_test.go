package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmenter_Segment(t *testing.T) {
	text := "Nov 01, 2025 06:05 pm\nDEBIT ₹1,500 Paid to GTPL HATHWAY LIMITED\n" +
		"Nov 01, 2025 06:04 pm\nCREDIT ₹1,500 Received from Dad\n"

	blocks := NewSegmenter(nil).Segment(text)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Nov 01, 2025 06:05 pm\nDEBIT ₹1,500 Paid to GTPL HATHWAY LIMITED", blocks[0])
	assert.Equal(t, "Nov 01, 2025 06:04 pm\nCREDIT ₹1,500 Received from Dad", blocks[1])
}

func TestSegmenter_NoAnchors(t *testing.T) {
	tests := []string{
		"",
		"no dates here at all",
		"DEBIT ₹1,500 Paid to Shop\n01/11/2025",
	}

	s := NewSegmenter(nil)
	for _, text := range tests {
		blocks := s.Segment(text)
		assert.NotNil(t, blocks)
		assert.Empty(t, blocks)
	}
}

func TestSegmenter_DropsPreamble(t *testing.T) {
	blocks := NewSegmenter(nil).Segment("Statement for Bob\nNov 01, 2025\nDEBIT ₹5")

	assert.Equal(t, []string{"Nov 01, 2025\nDEBIT ₹5"}, blocks)
}

func TestSegmenter_DiscardsHeaderBlocks(t *testing.T) {
	text := "Nov 01, 2025\nDate Transaction Details\nNov 02, 2025\nDEBIT ₹5 Paid to Shop"

	blocks := NewSegmenter(nil).Segment(text)

	assert.Equal(t, []string{"Nov 02, 2025\nDEBIT ₹5 Paid to Shop"}, blocks)
}

func TestSegmenter_DanglingDateIsKept(t *testing.T) {
	text := "Nov 01, 2025\nDEBIT ₹5 Paid to Shop\nNov 30, 2025"

	blocks := NewSegmenter(nil).Segment(text)

	require.Len(t, blocks, 2)
	assert.Equal(t, "Nov 30, 2025", blocks[1])
}

func TestSegmenter_BlocksHoldOneAnchor(t *testing.T) {
	text := "Oct 10, 2025\n06:30 pm\nDEBIT ₹7,000 Paid to A\nOct 10, 2025\n06:31 pm\nDEBIT ₹10 Paid to B\nOct 09, 2025 08:34 pm DEBIT ₹1,101"

	m := NewDateMatcher()
	blocks := NewSegmenter(m).Segment(text)

	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.Equal(t, []int{0}, m.FindAnchors(b), "block %q", b)
	}
}

type fixedAnchors []int

func (f fixedAnchors) FindAnchors(string) []int { return f }

func TestSegmenter_CustomAnchorMatcher(t *testing.T) {
	blocks := NewSegmenter(fixedAnchors{0, 4, 8}).Segment("abc def   ")

	assert.Equal(t, []string{"abc", "def"}, blocks)
}
