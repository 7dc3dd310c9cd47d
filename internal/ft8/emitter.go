package ft8

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Message is a decoded, validated payload ready for emission (spec §3):
// owned entirely by the emitter once produced, never mutated after dedup
// insertion.
type Message struct {
	Text    string // decoded ITU-style text, at most 24 printable characters
	Hash    uint16 // payload digest, used for dedup
	FreqHz  float64
	TimeSec float64
	Score   int16
}

// dedupCapacity is the fixed size of the open-addressed duplicate filter
// (spec §4.7): large enough relative to one buffer's typical decode count
// that probe chains stay short.
const dedupCapacity = 1000

// dedupTable is the open-addressed hash table spec §4.7 and §9 ("hash table
// with open addressing... bounded probing of an array-backed table") call
// for: fixed capacity, linear probing, and a stricter-than-source
// (hash, text) equality check before treating an entry as a duplicate.
type dedupTable struct {
	slots    [dedupCapacity]*Message
	order    []int // slot indices in insertion order
	occupied int
}

func newDedupTable() *dedupTable {
	return &dedupTable{}
}

// insert reports whether msg was newly inserted (false means it was a
// duplicate and was dropped). Probing is guaranteed to terminate because
// occupancy never reaches capacity in a single buffer's realistic decode
// volume, and an empty slot or a matching (hash, text) entry is found before
// a full wrap would occur.
func (d *dedupTable) insert(msg Message) bool {
	slot := int(msg.Hash) % dedupCapacity
	for i := 0; i < dedupCapacity; i++ {
		idx := (slot + i) % dedupCapacity
		existing := d.slots[idx]
		if existing == nil {
			cp := msg
			d.slots[idx] = &cp
			d.order = append(d.order, idx)
			d.occupied++
			return true
		}
		if existing.Hash == msg.Hash && existing.Text == msg.Text {
			return false
		}
	}
	return false
}

// messages returns the table's occupied entries, sorted ascending by
// FreqHz (stable, so equal frequencies preserve insertion order, spec §4.8
// and testable property 6).
func (d *dedupTable) messages() []Message {
	out := make([]Message, 0, d.occupied)
	for _, idx := range d.order {
		out = append(out, *d.slots[idx])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FreqHz < out[j].FreqHz })
	return out
}

// FormatLine renders one decoded message as spec §4.8's emission line:
//
//	YYYY/MM/DD HH:MM:SS <score> <±time_sec:4.2f> <freq_hz, thousands-grouped:.1f> ~ <text>
//
// slotStart is the broken-down UTC time of the buffer's first sample;
// cycleLen is the protocol's slot length (15s FT8 / 7.5s FT4); fractionalSec
// is the fractional second of that first sample; baseFreqMHz is the dial
// frequency 0 Hz audio corresponds to.
func FormatLine(msg Message, slotStart time.Time, cycleLen, fractionalSec, baseFreqMHz float64) string {
	tBase := matchPhase(float64(slotStart.Second()), cycleLen) + fractionalSec
	reportedTime := tBase + msg.TimeSec
	reportedFreq := baseFreqMHz*1e6 + msg.FreqHz

	p := message.NewPrinter(language.English)
	freqStr := p.Sprintf("%v", number.Decimal(reportedFreq, number.Scale(1)))

	return fmt.Sprintf("%s %d %+4.2f %s ~ %s",
		slotStart.Format("2006/01/02 15:04:05"),
		msg.Score,
		reportedTime,
		freqStr,
		msg.Text,
	)
}

func matchPhase(seconds, cycleLen float64) float64 {
	if cycleLen <= 0 {
		return seconds
	}
	m := seconds - cycleLen*float64(int(seconds/cycleLen))
	if m < 0 {
		m += cycleLen
	}
	return m
}
