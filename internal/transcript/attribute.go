package transcript

import "strings"

// Attribute assigns a speaker id to each transcript segment by temporal
// overlap against the diarized speaker segments, then merges adjacent
// segments that share a speaker.
//
// Per segment, the speaker with the strictly largest overlap wins (first
// found wins ties). A segment that overlaps no speaker inherits the most
// recently assigned speaker, or the first speaker segment's id when nothing
// has been assigned yet. Segments whose trimmed text is empty are dropped.
//
// If not a single segment overlaps any speaker segment, the alignment is
// untrustworthy and Attribute returns nil; callers then treat the whole
// recording as one undifferentiated speaker. This gate is deliberately
// all-or-nothing.
func Attribute(segs []Segment, speakers []SpeakerSegment) []Attributed {
	if len(segs) == 0 || len(speakers) == 0 {
		return nil
	}

	out := make([]Attributed, 0, len(segs))
	anyOverlap := false
	last := speakers[0].Speaker
	assigned := false

	for _, seg := range segs {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		best := -1
		bestOverlap := 0.0
		for _, sp := range speakers {
			ov := overlap(seg.Start, seg.End, sp.Start, sp.End)
			if ov > bestOverlap {
				bestOverlap = ov
				best = sp.Speaker
			}
		}

		var speaker int
		if best >= 0 && bestOverlap > 0 {
			speaker = best
			anyOverlap = true
			last = speaker
			assigned = true
		} else if assigned {
			speaker = last
		} else {
			speaker = speakers[0].Speaker
		}

		out = append(out, Attributed{Start: seg.Start, End: seg.End, Speaker: speaker, Text: text})
	}

	if !anyOverlap {
		return nil
	}
	return mergeAdjacent(out)
}

// overlap is the shared duration of [aStart,aEnd] and [bStart,bEnd], never negative.
func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := aStart
	if bStart > lo {
		lo = bStart
	}
	hi := aEnd
	if bEnd < hi {
		hi = bEnd
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// mergeAdjacent collapses consecutive segments with the same speaker into
// one, extending the end time and joining texts with a single space.
func mergeAdjacent(in []Attributed) []Attributed {
	if len(in) == 0 {
		return in
	}
	out := make([]Attributed, 0, len(in))
	cur := in[0]
	for _, a := range in[1:] {
		if a.Speaker == cur.Speaker {
			if a.End > cur.End {
				cur.End = a.End
			}
			cur.Text = cur.Text + " " + a.Text
			continue
		}
		out = append(out, cur)
		cur = a
	}
	return append(out, cur)
}
