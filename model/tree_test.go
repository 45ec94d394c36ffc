package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 {
	return &v
}

func menu(id uint64, parent *uint64, sort int, name string) *Menu {
	m := &Menu{Name: name, Sort: sort, ParentID: parent}
	m.ID = id
	return m
}

func TestBuildTreeNesting(t *testing.T) {
	flat := []*Menu{
		menu(1, nil, 1, "Dashboard"),
		menu(2, ptr(1), 1, "Sub"),
	}

	tree := BuildTree(flat)

	assert.Len(t, tree, 1)
	assert.Equal(t, uint64(1), tree[0].ID)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, uint64(2), tree[0].Children[0].ID)
	assert.Empty(t, tree[0].Children[0].Children)
	assert.NotNil(t, tree[0].Children[0].Children)
}

func TestBuildTreeSiblingOrder(t *testing.T) {
	flat := []*Menu{
		menu(3, nil, 2, "b"),
		menu(1, nil, 1, "a"),
		menu(2, nil, 2, "c"),
	}

	tree := BuildTree(flat)

	assert.Len(t, tree, 3)
	// sort 升序，sort 相同按 id 升序
	assert.Equal(t, uint64(1), tree[0].ID)
	assert.Equal(t, uint64(2), tree[1].ID)
	assert.Equal(t, uint64(3), tree[2].ID)
}

func TestBuildTreeOrphanVanishes(t *testing.T) {
	flat := []*Menu{
		menu(1, nil, 1, "root"),
		menu(2, ptr(99), 1, "orphan"),
	}

	tree := BuildTree(flat)

	assert.Len(t, tree, 1)
	assert.Equal(t, uint64(1), tree[0].ID)
	assert.Empty(t, tree[0].Children)
}

func TestBuildTreeIdempotent(t *testing.T) {
	// 两份独立构造的输入，避免共享指针让比较退化成自己和自己比
	newFlat := func() []*Menu {
		return []*Menu{
			menu(1, nil, 1, "root"),
			menu(2, ptr(1), 2, "b"),
			menu(3, ptr(1), 1, "a"),
			menu(4, ptr(3), 1, "a1"),
		}
	}

	first := BuildTree(newFlat())
	second := BuildTree(newFlat())

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(3), first[0].Children[0].ID)
	assert.Equal(t, uint64(2), first[0].Children[1].ID)
	assert.Equal(t, uint64(4), first[0].Children[0].Children[0].ID)
}

func TestBuildTreeSelfParentDoesNotRecurseForever(t *testing.T) {
	bad := menu(7, ptr(7), 1, "self")
	flat := []*Menu{
		menu(1, nil, 1, "root"),
		bad,
	}

	tree := BuildTree(flat)

	// 自指节点不会挂到根层，也不会让构建死循环
	assert.Len(t, tree, 1)
	assert.Equal(t, uint64(1), tree[0].ID)
}

func TestCheckParentCycle(t *testing.T) {
	a := menu(1, nil, 1, "a")
	b := menu(2, ptr(1), 1, "b")
	c := menu(3, ptr(2), 1, "c")
	flat := []*Menu{a, b, c}

	// c 挂到 a 下面没问题
	assert.NoError(t, CheckParentCycle(flat, 3, 1))
	// a 挂到 c 下面成环
	assert.ErrorIs(t, CheckParentCycle(flat, 1, 3), ErrParentCycle)
	// 自己挂自己成环
	assert.ErrorIs(t, CheckParentCycle(flat, 2, 2), ErrParentCycle)
	// 新建节点挂在任何现有节点下都合法
	assert.NoError(t, CheckParentCycle(flat, 0, 3))
	// parent 不在集合内时父链有界即放行，存在性由写入口单独校验
	assert.NoError(t, CheckParentCycle(flat, 1, 42))
}
