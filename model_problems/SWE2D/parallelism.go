package SWE2D

import "github.com/skycler/swe2d/utils"

// partitionEdges distributes edge indices across the parallel buckets.
// Interior and boundary edges are split separately so every bucket
// carries a balanced mix of both kinds of flux work.
func (s *SWE) partitionEdges() (buckets [][]int) {
	var (
		NP                 = s.Partitions.ParallelDegree
		interior, boundary []int
	)
	for ei, e := range s.Mesh.Edges {
		if e.RightTri == -1 {
			boundary = append(boundary, ei)
		} else {
			interior = append(interior, ei)
		}
	}
	var (
		pmI = utils.NewPartitionMap(NP, len(interior))
		pmB = utils.NewPartitionMap(NP, len(boundary))
	)
	buckets = make([][]int, NP)
	for np := 0; np < NP; np++ {
		buckets[np] = make([]int, 0, pmI.GetBucketDimension(np)+pmB.GetBucketDimension(np))
		iMin, iMax := pmI.GetBucketRange(np)
		for i := iMin; i < iMax; i++ {
			buckets[np] = append(buckets[np], interior[i])
		}
		bMin, bMax := pmB.GetBucketRange(np)
		for i := bMin; i < bMax; i++ {
			buckets[np] = append(buckets[np], boundary[i])
		}
	}
	return
}
