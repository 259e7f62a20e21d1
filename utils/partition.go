package utils

import "sort"

// PartitionMap splits the index range [0,MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// Split1D returns the range of one bucket, the remainder of the division is
// spread over the leading buckets
func (pm *PartitionMap) Split1D(bucketNum int) (bucket [2]int) {
	var (
		nPart     = pm.MaxIndex / pm.ParallelDegree
		remainder = pm.MaxIndex % pm.ParallelDegree
	)
	bucket[0] = bucketNum*nPart + min(bucketNum, remainder)
	bucket[1] = bucket[0] + nPart
	if bucketNum < remainder {
		bucket[1]++
	}
	return
}

// GetBucket finds the bucket holding index k, bucketNum is -1 when k is out
// of range
func (pm *PartitionMap) GetBucket(k int) (bucketNum, kMin, kMax int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1, 0, 0
	}
	bucketNum = sort.Search(pm.ParallelDegree, func(n int) bool {
		return pm.Partitions[n][1] > k
	})
	kMin, kMax = pm.GetBucketRange(bucketNum)
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bucketNum int) int {
	if bucketNum == -1 {
		return pm.MaxIndex
	}
	kMin, kMax := pm.GetBucketRange(bucketNum)
	return kMax - kMin
}
