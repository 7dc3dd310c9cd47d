package ft8

import "github.com/ka9q/ft8-lib/internal/tables"

// syncGroup describes where a protocol's Costas sync groups sit in the
// channel symbol sequence, so FindCandidates can walk FT8 and FT4 with the
// same loop instead of two near-duplicate ones.
type syncGroup struct {
	numGroups  int
	groupLen   int
	groupStart func(groupIdx int) int          // first absolute symbol of group g
	tone       func(groupIdx, k int) int        // expected tone for symbol k of group g
}

func syncGroupFor(protocol Protocol) syncGroup {
	if protocol == ProtocolFT4 {
		return syncGroup{
			numGroups: 4,
			groupLen:  4,
			groupStart: func(g int) int { return 1 + 33*g },
			tone: func(g, k int) int { return int(tables.FT4Costas[g][k]) },
		}
	}
	return syncGroup{
		numGroups: 3,
		groupLen:  7,
		groupStart: func(g int) int { return 36 * g },
		tone: func(g, k int) int { return int(tables.FT8Costas[k]) },
	}
}

// FindCandidates scans every grid position for the protocol's Costas
// pattern and returns up to maxCandidates scored hits (spec §4.2). Time
// offsets from -10 to +19 blocks are tried so signals starting slightly
// before or after the nominal slot boundary are still found.
func FindCandidates(wf *Waterfall, maxCandidates, minScore int) []Candidate {
	sg := syncGroupFor(wf.Protocol)
	numTones := wf.Protocol.NumTones()
	top := newBoundedHeap(maxCandidates, minScore)

	for timeSub := 0; timeSub < wf.TimeOSR; timeSub++ {
		for freqSub := 0; freqSub < wf.FreqOSR; freqSub++ {
			for timeOffset := -10; timeOffset < 20; timeOffset++ {
				for freqOffset := 0; freqOffset+numTones-1 < wf.NumBins; freqOffset++ {
					score := syncScore(wf, sg, numTones, timeOffset, freqOffset, timeSub, freqSub)
					top.insert(Candidate{
						Score:      int16(score),
						TimeOffset: int16(timeOffset),
						FreqOffset: int16(freqOffset),
						TimeSub:    uint8(timeSub),
						FreqSub:    uint8(freqSub),
					})
				}
			}
		}
	}

	return top.candidates()
}

// syncScore computes the Costas correlation score for one grid position:
// for every reference tone in every sync symbol, the magnitude at the
// expected tone minus the magnitudes of its in-range neighbors (one bin
// below, one bin above, one symbol earlier, one symbol later), averaged
// over however many neighbor terms existed in range (spec §4.2).
//
// Open question (documented in SPEC_FULL.md): the source leaves the
// tie-break for equal-magnitude neighbors unspecified. This implementation
// always includes every in-range neighbor term in the sum regardless of
// whether it ties the expected tone's magnitude: an equal neighbor simply
// contributes zero, which is the natural reading of "difference" scoring
// and requires no special case.
func syncScore(wf *Waterfall, sg syncGroup, numTones, timeOffset, freqOffset, timeSub, freqSub int) int {
	score := 0
	terms := 0

	for g := 0; g < sg.numGroups; g++ {
		for k := 0; k < sg.groupLen; k++ {
			block := timeOffset + sg.groupStart(g) + k
			if block < 0 {
				continue
			}
			if block >= wf.NumBlocks {
				break
			}

			tone := sg.tone(g, k)
			expected := int(wf.mag(block, freqOffset+tone, timeSub, freqSub))

			if tone > 0 {
				score += expected - int(wf.mag(block, freqOffset+tone-1, timeSub, freqSub))
				terms++
			}
			if tone < numTones-1 {
				score += expected - int(wf.mag(block, freqOffset+tone+1, timeSub, freqSub))
				terms++
			}
			if k > 0 && block > 0 {
				score += expected - int(wf.mag(block-1, freqOffset+tone, timeSub, freqSub))
				terms++
			}
			if k+1 < sg.groupLen && block+1 < wf.NumBlocks {
				score += expected - int(wf.mag(block+1, freqOffset+tone, timeSub, freqSub))
				terms++
			}
		}
	}

	if terms == 0 {
		return 0
	}
	return score / terms
}

// CandidateFrequency returns the candidate's audio frequency in Hz. The
// tone grid spacing is 1/symbolPeriod Hz (6.25 Hz for FT8), and freqSub
// resolves it further by 1/FreqOSR of a tone.
func CandidateFrequency(wf *Waterfall, c *Candidate, symbolPeriod float64) float64 {
	return (float64(wf.MinBin) + float64(c.FreqOffset) + float64(c.FreqSub)/float64(wf.FreqOSR)) / symbolPeriod
}

// CandidateTime returns the candidate's time offset from slot start, in
// seconds.
func CandidateTime(wf *Waterfall, c *Candidate, symbolPeriod float64) float64 {
	return (float64(c.TimeOffset) + float64(c.TimeSub)/float64(wf.TimeOSR)) * symbolPeriod
}
