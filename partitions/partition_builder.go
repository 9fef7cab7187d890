package partitions

import (
	"fmt"
	"math"
	"sort"
)

// DefaultPartitionSize is the number of cells per partition used when the
// caller does not choose one
const DefaultPartitionSize = 256

// PartitionBuilder groups the cells of a mesh into partitions of about
// TargetPartitionSize cells
type PartitionBuilder struct {
	NumElements         int
	TargetPartitionSize int
	Strategy            PartitionStrategy

	// Centroids of the cells, required by SpaceFillingCurve
	CX, CY []float64
}

// PartitionStrategy defines how cells are grouped
type PartitionStrategy int

const (
	BlockPartition    PartitionStrategy = iota // Consecutive cells
	RoundRobin                                 // Distribute cyclically
	SpaceFillingCurve                          // Consecutive cells along a Morton curve through the centroids
)

// Build is a shortcut for a block layout of numElements cells
func Build(numElements, partitionSize int) (*PartitionLayout, error) {
	pb := &PartitionBuilder{
		NumElements:         numElements,
		TargetPartitionSize: partitionSize,
		Strategy:            BlockPartition,
	}
	return pb.BuildPartitions()
}

// BuildSpatial lays out cells along a Morton curve through their centroids,
// keeping each partition spatially compact after local refinement has
// appended new cells at the end of the cell list
func BuildSpatial(cx, cy []float64, partitionSize int) (*PartitionLayout, error) {
	pb := &PartitionBuilder{
		NumElements:         len(cx),
		TargetPartitionSize: partitionSize,
		Strategy:            SpaceFillingCurve,
		CX:                  cx,
		CY:                  cy,
	}
	return pb.BuildPartitions()
}

// BuildPartitions creates and validates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumElements < 1 {
		return nil, fmt.Errorf("invalid number of elements %d", pb.NumElements)
	}
	size := pb.TargetPartitionSize
	if size < 1 {
		size = DefaultPartitionSize
	}
	numPartitions := (pb.NumElements + size - 1) / size

	order, err := pb.ordering()
	if err != nil {
		return nil, err
	}
	var (
		eToP       = make([]int, pb.NumElements)
		partitions = make([]Partition, numPartitions)
	)
	for i := range partitions {
		partitions[i].ID = i
	}
	// Block and curve orderings cut the sequence into equal runs
	perPartition := (pb.NumElements + numPartitions - 1) / numPartitions
	for pos, k := range order {
		p := pos / perPartition
		if pb.Strategy == RoundRobin {
			p = pos % numPartitions
		}
		eToP[k] = p
		partitions[p].Elements = append(partitions[p].Elements, k)
		partitions[p].NumElements++
	}

	kpartMax := 0
	for _, p := range partitions {
		kpartMax = max(kpartMax, p.NumElements)
	}
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}
	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

// ordering returns the sequence in which cells are dealt out
func (pb *PartitionBuilder) ordering() ([]int, error) {
	order := make([]int, pb.NumElements)
	for k := range order {
		order[k] = k
	}
	switch pb.Strategy {
	case BlockPartition, RoundRobin:
		return order, nil
	case SpaceFillingCurve:
		if len(pb.CX) != pb.NumElements || len(pb.CY) != pb.NumElements {
			return nil, fmt.Errorf("have %d/%d centroids for %d elements",
				len(pb.CX), len(pb.CY), pb.NumElements)
		}
		key := mortonKeys(pb.CX, pb.CY)
		sort.SliceStable(order, func(i, j int) bool { return key[order[i]] < key[order[j]] })
		return order, nil
	default:
		return nil, fmt.Errorf("unknown partition strategy %d", pb.Strategy)
	}
}

// mortonKeys interleaves the bits of the centroids quantised to 16 bits over
// their bounding box
func mortonKeys(cx, cy []float64) []uint32 {
	var (
		xmin, xmax = bounds(cx)
		ymin, ymax = bounds(cy)
		keys       = make([]uint32, len(cx))
	)
	for k := range cx {
		keys[k] = spread(quantise(cx[k], xmin, xmax)) | spread(quantise(cy[k], ymin, ymax))<<1
	}
	return keys
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	return
}

func quantise(x, lo, hi float64) uint32 {
	if !(hi > lo) {
		return 0
	}
	return uint32(math.Min(math.Max((x-lo)/(hi-lo), 0), 1) * 0xffff)
}

// spread moves bit i of a 16 bit value to bit 2i
func spread(v uint32) uint32 {
	v &= 0xffff
	v = (v | v<<8) & 0x00ff00ff
	v = (v | v<<4) & 0x0f0f0f0f
	v = (v | v<<2) & 0x33333333
	v = (v | v<<1) & 0x55555555
	return v
}
