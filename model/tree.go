package model

import (
	"errors"
	"sort"
)

// maxTreeDepth 限制递归层数，父链成环的脏数据不会拖死构建
const maxTreeDepth = 10

var ErrParentCycle = errors.New("parent chain contains a cycle")

// TreeNode 自引用树节点，ParentID 为 0 表示根节点
type TreeNode[T any] interface {
	GetID() uint64
	GetParentID() uint64
	GetSort() int
	SetChildren([]T)
}

// BuildTree 把平铺的 parent 指针列表构建成树。
// 同级按 sort 升序、id 升序排列；parent 不在输入集合中的节点被静默丢弃。
func BuildTree[T TreeNode[T]](nodes []T) []T {
	sorted := make([]T, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GetSort() != sorted[j].GetSort() {
			return sorted[i].GetSort() < sorted[j].GetSort()
		}
		return sorted[i].GetID() < sorted[j].GetID()
	})
	return buildSubtree(sorted, 0, 0)
}

func buildSubtree[T TreeNode[T]](nodes []T, parentID uint64, depth int) []T {
	ret := make([]T, 0)
	if depth >= maxTreeDepth {
		return ret
	}
	for _, n := range nodes {
		if n.GetParentID() != parentID {
			continue
		}
		n.SetChildren(buildSubtree(nodes, n.GetID(), depth+1))
		ret = append(ret, n)
	}
	return ret
}

// CheckParentCycle 写入前校验：从 parentID 沿父链上溯，撞到 id 即成环。
// id 为 0 表示新建节点，只校验父链本身有界。
func CheckParentCycle[T TreeNode[T]](nodes []T, id, parentID uint64) error {
	byID := make(map[uint64]T, len(nodes))
	for _, n := range nodes {
		byID[n.GetID()] = n
	}

	cur := parentID
	for i := 0; cur != 0 && i < maxTreeDepth; i++ {
		if cur == id {
			return ErrParentCycle
		}
		n, ok := byID[cur]
		if !ok {
			return nil
		}
		cur = n.GetParentID()
	}
	if cur != 0 {
		return ErrParentCycle
	}
	return nil
}
