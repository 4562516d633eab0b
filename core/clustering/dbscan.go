package clustering

import "sort"

const noise = -1

// DBSCAN labels density-connected groups of points. A point is a core point when at least
// minSamples points (itself included) lie within eps. Labels, noise included, are then renumbered
// 0..m-1 in ascending order, so noise (if any) becomes cluster 0.
func DBSCAN(points [][]float64, eps float64, minSamples int) []int {
	labels := make([]int, len(points))
	const unvisited = -2
	for i := range labels {
		labels[i] = unvisited
	}
	eps2 := eps * eps

	neighbors := func(i int) []int {
		var out []int
		for j, q := range points {
			if sqDist(points[i], q) <= eps2 {
				out = append(out, j)
			}
		}
		return out
	}

	cluster := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		seeds := neighbors(i)
		if len(seeds) < minSamples {
			labels[i] = noise
			continue
		}
		labels[i] = cluster
		for len(seeds) > 0 {
			j := seeds[0]
			seeds = seeds[1:]
			if labels[j] == noise {
				labels[j] = cluster // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			if nb := neighbors(j); len(nb) >= minSamples {
				seeds = append(seeds, nb...)
			}
		}
		cluster++
	}
	return remap(labels)
}

func remap(labels []int) []int {
	uniq := make(map[int]struct{})
	for _, l := range labels {
		uniq[l] = struct{}{}
	}
	sorted := make([]int, 0, len(uniq))
	for l := range uniq {
		sorted = append(sorted, l)
	}
	sort.Ints(sorted)
	index := make(map[int]int, len(sorted))
	for i, l := range sorted {
		index[l] = i
	}

	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = index[l]
	}
	return out
}
