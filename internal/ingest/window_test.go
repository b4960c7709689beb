package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionGenome_DisjointConsecutiveWindows(t *testing.T) {
	windows := PartitionGenome(map[string]uint32{"1": 250_000}, 100_000)
	require.Len(t, windows, 3)

	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	assert.Equal(t, Window{Chrom: "1", Start: 1, End: 100_000}, windows[0])
	assert.Equal(t, Window{Chrom: "1", Start: 100_001, End: 200_000}, windows[1])
	assert.Equal(t, Window{Chrom: "1", Start: 200_001, End: 250_000}, windows[2], "last window is shorter than windowSize")
}

func TestPartitionGenome_DefaultsWindowSize(t *testing.T) {
	withZero := PartitionGenome(map[string]uint32{"1": 250_000}, 0)
	withDefault := PartitionGenome(map[string]uint32{"1": 250_000}, DefaultWindowSize)
	assert.Equal(t, len(withDefault), len(withZero))
}

func TestRunWindowed_VisitsEveryWindowAndPropagatesError(t *testing.T) {
	windows := PartitionGenome(map[string]uint32{"1": 300_000, "2": 50_000}, 100_000)

	var mu sync.Mutex
	visited := map[string]bool{}
	err := RunWindowed(context.Background(), windows, 2, func(_ context.Context, w Window) error {
		mu.Lock()
		visited[fmt.Sprintf("%s:%d", w.Chrom, w.Start)] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, visited, len(windows))

	sentinel := assert.AnError
	err = RunWindowed(context.Background(), windows, 2, func(_ context.Context, w Window) error {
		if w.Chrom == "2" {
			return sentinel
		}
		return nil
	})
	require.Error(t, err)
}

func TestParallelProcessAndOrderedCollect_PreservesSequenceOrder(t *testing.T) {
	items := make(chan WorkItem, 5)
	for i := 0; i < 5; i++ {
		items <- WorkItem{Seq: i, Extra: i * 10}
	}
	close(items)

	results := ParallelProcess(items, 3, func(WorkItem) error { return nil })

	var order []int
	err := OrderedCollect(results, func(r WorkResult) error {
		order = append(order, r.Extra.(int))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40}, order)
}

func TestOrderedCollect_StopsAndDrainsOnError(t *testing.T) {
	items := make(chan WorkItem, 3)
	items <- WorkItem{Seq: 0}
	items <- WorkItem{Seq: 1}
	items <- WorkItem{Seq: 2}
	close(items)

	results := ParallelProcess(items, 2, func(item WorkItem) error {
		if item.Seq == 1 {
			return assert.AnError
		}
		return nil
	})

	var seen int
	err := OrderedCollect(results, func(r WorkResult) error {
		seen++
		return r.Err
	})
	require.Error(t, err)
	assert.Equal(t, 2, seen, "collection stops right after the first failing sequence position")
}
