package snapshot

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_StartsWithPlaceholder(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "{}", s.Read())
}

func TestStore_PublishThenRead(t *testing.T) {
	s := NewStore()
	s.Publish(`{"1": 2}`)
	assert.Equal(t, `{"1": 2}`, s.Read())
	s.Publish("{}")
	assert.Equal(t, "{}", s.Read())
}

func TestStore_ReadersSeeWholeValues(t *testing.T) {
	s := NewStore()

	// Each published value is a long run of a single digit, so a torn read
	// would show mixed digits.
	values := make([]string, 10)
	for i := range values {
		values[i] = strings.Repeat(fmt.Sprint(i), 4096)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				v := s.Read()
				if v == "{}" {
					continue
				}
				assert.Equal(t, strings.Repeat(v[:1], len(v)), v)
			}
		}()
	}

	for round := 0; round < 200; round++ {
		s.Publish(values[round%len(values)])
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, values[199%len(values)], s.Read())
}

func TestEncode_Empty(t *testing.T) {
	out, n := Encode(slices.Values([]domain.Identity(nil)))
	assert.Equal(t, "{}", out)
	assert.Zero(t, n)
}

func TestEncode_PairsInIterationOrder(t *testing.T) {
	ids := []domain.Identity{{LocalID: 5, RemoteID: 100}, {LocalID: 6, RemoteID: 200}}
	out, n := Encode(slices.Values(ids))
	assert.Equal(t, `{"5": 100,"6": 200}`, out)
	assert.Equal(t, 2, n)

	reversed := []domain.Identity{ids[1], ids[0]}
	out, _ = Encode(slices.Values(reversed))
	assert.Equal(t, `{"6": 200,"5": 100}`, out)
}

func TestEncode_SinglePairIsValidJSON(t *testing.T) {
	var seq iter.Seq[domain.Identity] = func(yield func(domain.Identity) bool) {
		yield(domain.Identity{LocalID: 4294967295, RemoteID: 0})
	}
	out, _ := Encode(seq)
	assert.Equal(t, `{"4294967295": 0}`, out)

	var decoded map[string]uint32
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[string]uint32{"4294967295": 0}, decoded)
}
