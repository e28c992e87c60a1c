package triage

import "sort"

type membership struct {
	clusterType ClusterType
	key         string
	index       int
}

// buildClusters groups membership tuples by (type, key), keeping only
// groups with at least minClusterSize members. It also returns, per
// index, the set of peer indices reachable through any surviving group
// — duplicatePeers is the size of that union, computed once and never
// iteratively recomputed after scoring.
func buildClusters(items []*ScoredPullRequest, minClusterSize int) ([]rawCluster, map[int]map[int]bool) {
	var tuples []membership
	for i, item := range items {
		for _, area := range item.PathAreas {
			if area == "" {
				continue
			}
			tuples = append(tuples, membership{ClusterPathArea, area, i})
		}
		if item.TitleFingerprint != "" {
			tuples = append(tuples, membership{ClusterTitleFingerprint, item.TitleFingerprint, i})
		}
		for _, sig := range item.FailureSignatures {
			tuples = append(tuples, membership{ClusterFailureSignature, sig, i})
		}
	}

	groups := map[string]*rawCluster{}
	var order []string
	for _, t := range tuples {
		gk := string(t.clusterType) + ":" + t.key
		g, ok := groups[gk]
		if !ok {
			g = &rawCluster{clusterType: t.clusterType, key: t.key}
			groups[gk] = g
			order = append(order, gk)
		}
		g.indices = append(g.indices, t.index)
	}

	peers := map[int]map[int]bool{}
	var clusters []rawCluster
	for _, gk := range order {
		g := groups[gk]
		indexSet := map[int]bool{}
		for _, idx := range g.indices {
			indexSet[idx] = true
		}
		dedup := make([]int, 0, len(indexSet))
		for idx := range indexSet {
			dedup = append(dedup, idx)
		}
		sort.Ints(dedup)
		g.indices = dedup

		if len(dedup) < minClusterSize {
			continue
		}
		clusters = append(clusters, *g)

		for _, idx := range dedup {
			if peers[idx] == nil {
				peers[idx] = map[int]bool{}
			}
			for _, peer := range dedup {
				if peer != idx {
					peers[idx][peer] = true
				}
			}
		}
	}

	return clusters, peers
}

type rawCluster struct {
	clusterType ClusterType
	key         string
	indices     []int
}
