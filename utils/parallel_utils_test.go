package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Buckets must tile the index space exactly, imbalance at most one
		for _, maxIndex := range []int{1, 7, 16, 100, 101} {
			for np := 1; np <= 8; np++ {
				if np > maxIndex {
					continue
				}
				pm := NewPartitionMap(np, maxIndex)
				var total int
				prevEnd := 0
				for n := 0; n < np; n++ {
					kMin, kMax := pm.GetBucketRange(n)
					assert.Equal(t, prevEnd, kMin)
					assert.True(t, kMax > kMin)
					total += pm.GetBucketDimension(n)
					prevEnd = kMax
				}
				assert.Equal(t, maxIndex, total)
				assert.Equal(t, maxIndex, prevEnd)
			}
		}
	}
	{ // GetBucket finds the containing bucket for every index
		pm := NewPartitionMap(4, 10)
		for k := 0; k < 10; k++ {
			bn, min, max := pm.GetBucket(k)
			assert.True(t, bn >= 0 && bn < 4)
			assert.True(t, min <= k && k < max)
		}
	}
}
