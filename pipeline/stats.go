// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

// CountClusters groups the successfully geocoded rows into clusters using a
// haversine distance threshold in meters, and returns the cluster count. A
// row joins a cluster when it is within the threshold of any member.
func CountClusters(results []RowResult, thresholdMeters float64) int {
	points := make([]RowResult, 0, len(results))

	for _, res := range results {
		if res.Point != nil {
			points = append(points, res)
		}
	}

	visited := make([]bool, len(points))
	clusters := 0

	for i, p1 := range points {
		if visited[i] {
			continue
		}

		cluster := []RowResult{p1}
		visited[i] = true

		for j, p2 := range points {
			if visited[j] {
				continue
			}

			for _, member := range cluster {
				if p2.Point.HaversineDistance(member.Point) <= thresholdMeters {
					cluster = append(cluster, p2)
					visited[j] = true

					break
				}
			}
		}

		clusters++
	}

	return clusters
}
