package chatexport

// Segment is the raw text of one message, starting at a detected anchor.
type Segment struct {
	Anchor string
	Date   string
	Time   string
	Body   string
}

// SegmentText splits sanitized export text at every anchor of the grammar.
// Text before the first anchor is discarded; no anchors yields nil.
func SegmentText(text string, g *Grammar) []Segment {
	matches := g.Anchor.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	segments := make([]Segment, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segments = append(segments, Segment{
			Anchor: text[m[0]:m[1]],
			Date:   text[m[2*g.dateIdx]:m[2*g.dateIdx+1]],
			Time:   text[m[2*g.timeIdx]:m[2*g.timeIdx+1]],
			Body:   text[m[1]:end],
		})
	}
	return segments
}

// CountAnchors returns how many anchors of the grammar occur in the text.
func CountAnchors(text string, g *Grammar) int {
	return len(g.Anchor.FindAllStringIndex(text, -1))
}

// DetectGrammar picks the grammar with the most anchors in the text.
// Ties go to the earlier grammar. It returns nil when no grammar matches.
func DetectGrammar(text string, grammars []*Grammar) *Grammar {
	var best *Grammar
	bestCount := 0
	for _, g := range grammars {
		if n := CountAnchors(text, g); n > bestCount {
			best, bestCount = g, n
		}
	}
	return best
}
