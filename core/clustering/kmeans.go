package clustering

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

const kmeansMaxIter = 300

type kmeansRun struct {
	labels  []int
	inertia float64
}

// KMeans partitions points into min(k, len(points)) clusters.
// It performs nInit independent runs seeded from seed, concurrently, and keeps the one with the
// lowest inertia (the earliest run on ties), so results are reproducible.
func KMeans(ctx context.Context, points [][]float64, k, nInit int, seed int64) ([]int, error) {
	if len(points) == 0 {
		return []int{}, nil
	}
	if k > len(points) {
		k = len(points)
	}
	if k < 1 {
		k = 1
	}
	if nInit < 1 {
		nInit = 1
	}

	runs := make([]kmeansRun, nInit)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < nInit; i++ {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			runs[i] = lloyd(points, kmeansPlusPlus(points, k, rng))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < nInit; i++ {
		if runs[i].inertia < runs[best].inertia {
			best = i
		}
	}
	return runs[best].labels, nil
}

// kmeansPlusPlus picks k initial centers, each new one with a probability proportional to its
// squared distance to the nearest center already chosen.
func kmeansPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = sqDist(p, centers[0])
	}
	for len(centers) < k {
		var total float64
		for _, d := range dists {
			total += d
		}

		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dists {
				target -= d
				if target < 0 {
					next = i
					break
				}
			}
		}
		c := clone(points[next])
		centers = append(centers, c)
		for i, p := range points {
			if d := sqDist(p, c); d < dists[i] {
				dists[i] = d
			}
		}
	}
	return centers
}

// lloyd refines centers until assignments are stable.
func lloyd(points [][]float64, centers [][]float64) kmeansRun {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dims := len(points[0])

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, p := range points {
			if l := nearest(p, centers); l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue // empty clusters keep their center
			}
			for d := range sums[c] {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return kmeansRun{labels: labels, inertia: inertia}
}

func nearest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(p, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func clone(p []float64) []float64 {
	c := make([]float64, len(p))
	copy(c, p)
	return c
}
