// Package partitions splits the cells of a mesh into blocks evaluated by
// concurrent workers
package partitions

import (
	"fmt"
	"sync"
)

// Partition is a block of cells processed by one worker
type Partition struct {
	ID          int
	Elements    []int // cell indices, in processing order
	NumElements int
	MaxElements int // size of the largest partition of the layout
}

// PartitionLayout is a complete decomposition of the cells 0..TotalElements-1
type PartitionLayout struct {
	Partitions    []Partition
	KpartMax      int
	TotalElements int
	NumPartitions int
	EToP          []int // cell k belongs to Partitions[EToP[k]]
}

// GetPartition returns the partition of cell k, -1 outside the layout
func (pl *PartitionLayout) GetPartition(k int) int {
	if k < 0 || k >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[k]
}

// ValidateLayout checks that every cell sits in exactly the partition EToP
// names and that the cached sizes agree with the membership lists
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("have %d partitions, NumPartitions %d", len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("EToP covers %d cells, expected %d", len(pl.EToP), pl.TotalElements)
	}
	var (
		largest int
		seen    = make([]bool, pl.TotalElements)
	)
	for p, part := range pl.Partitions {
		switch {
		case part.ID != p:
			return fmt.Errorf("partition at %d has ID %d", p, part.ID)
		case part.NumElements != len(part.Elements):
			return fmt.Errorf("partition %d: NumElements %d != %d listed cells",
				p, part.NumElements, len(part.Elements))
		case part.MaxElements != pl.KpartMax:
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p, part.MaxElements, pl.KpartMax)
		}
		largest = max(largest, part.NumElements)
		for _, k := range part.Elements {
			if k < 0 || k >= pl.TotalElements || seen[k] {
				return fmt.Errorf("partition %d: cell %d out of range or repeated", p, k)
			}
			if pl.EToP[k] != p {
				return fmt.Errorf("cell %d listed in partition %d, EToP says %d", k, p, pl.EToP[k])
			}
			seen[k] = true
		}
	}
	if largest != pl.KpartMax {
		return fmt.Errorf("largest partition holds %d cells, KpartMax %d", largest, pl.KpartMax)
	}
	for k, ok := range seen {
		if !ok {
			return fmt.Errorf("cell %d is in no partition", k)
		}
	}
	return nil
}

// ForEach calls fn for every cell. Partitions run concurrently, cells of one
// partition run in order. fn must only write state owned by cell k.
func (pl *PartitionLayout) ForEach(fn func(k int)) {
	if pl.NumPartitions == 1 {
		for _, k := range pl.Partitions[0].Elements {
			fn(k)
		}
		return
	}
	var wg sync.WaitGroup
	for p := range pl.Partitions {
		wg.Add(1)
		go func(elements []int) {
			defer wg.Done()
			for _, k := range elements {
				fn(k)
			}
		}(pl.Partitions[p].Elements)
	}
	wg.Wait()
}
