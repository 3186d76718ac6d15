package deduplicator

import (
	"sort"

	"github.com/moyu-x/duplicate-finder/internal"
)

type groupKey struct {
	size   int64
	digest string
}

// BuildSets 在同一大小内按摘要分组，只保留成员数不少于 2 的组
// 组内成员保持输入顺序，最终按 SortSets 排序
func BuildSets(records []internal.HashedRecord) []internal.DuplicateSet {
	var order []groupKey
	groups := make(map[groupKey][]internal.HashedRecord)

	for _, record := range records {
		k := groupKey{size: record.Size, digest: record.Digest.Key()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], record)
	}

	var sets []internal.DuplicateSet
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		sets = append(sets, internal.DuplicateSet{
			Digest:  members[0].Digest,
			Size:    k.size,
			Kind:    members[0].Kind,
			Members: members,
		})
	}

	SortSets(sets)
	return sets
}

// SortSets 按浪费空间降序、单个大小降序、首个成员路径升序排列
func SortSets(sets []internal.DuplicateSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		if a.Wasted() != b.Wasted() {
			return a.Wasted() > b.Wasted()
		}
		if a.Size != b.Size {
			return a.Size > b.Size
		}
		return a.Members[0].Path < b.Members[0].Path
	})
}

// Summarize 汇总所有集合的数量、文件数和浪费空间
func Summarize(sets []internal.DuplicateSet) internal.Summary {
	var summary internal.Summary
	for _, set := range sets {
		summary.Sets++
		summary.DuplicateFiles += set.Copies()
		summary.WastedBytes += set.Wasted()
	}
	return summary
}
