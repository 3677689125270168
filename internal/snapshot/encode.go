package snapshot

import (
	"iter"
	"strconv"
	"strings"

	"github.com/aretw0/strpbridge/pkg/domain"
)

// Encode renders identities as a JSON object keyed by local id:
//
//	{"5": 100,"6": 200}
//
// Pairs keep the iteration order of seq. No identities yields "{}".
// The result also reports how many pairs were written.
func Encode(seq iter.Seq[domain.Identity]) (string, int) {
	var b strings.Builder
	b.WriteByte('{')

	n := 0
	for id := range seq {
		b.WriteByte('"')
		b.WriteString(strconv.FormatUint(uint64(id.LocalID), 10))
		b.WriteString(`": `)
		b.WriteString(strconv.FormatUint(uint64(id.RemoteID), 10))
		b.WriteByte(',')
		n++
	}

	out := b.String()
	if n == 0 {
		return domain.EmptySnapshot, 0
	}
	// Trailing separator becomes the closing brace.
	return out[:len(out)-1] + "}", n
}
