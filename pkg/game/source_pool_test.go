package game

import (
	"testing"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
)

// newBarePool 测试用池:工厂只创建带 AudioSourceComponent 的空闲发声器
func newBarePool(em *ecs.EntityManager) *SourcePool {
	holding := em.CreateEntity()
	return NewSourcePool(em, holding, func(holding ecs.EntityID) ecs.EntityID {
		id := em.CreateEntity()
		em.AddComponent(id, &components.TransformComponent{Parent: holding})
		em.AddComponent(id, &components.AudioSourceComponent{Pitch: 1, Pooled: true})
		return id
	})
}

func TestSourcePool_Warm(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := newBarePool(em)

	pool.Warm(3)
	if pool.Size() != 3 {
		t.Fatalf("Expected 3 sources, got %d", pool.Size())
	}
	pool.Warm(2)
	if pool.Size() != 3 {
		t.Errorf("Warm should never shrink, got %d", pool.Size())
	}

	for _, id := range pool.Sources() {
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		if tr.Parent != pool.Holding() {
			t.Errorf("Source %d should be parented to holding area", id)
		}
	}
}

func TestSourcePool_AcquireFirstFit(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := newBarePool(em)
	pool.Warm(3)
	ids := pool.Sources()

	first := pool.AcquireFree()
	if first != ids[0] {
		t.Fatalf("Expected first source %d, got %d", ids[0], first)
	}

	// 占用前两个,应返回第三个
	for _, id := range ids[:2] {
		src, _ := ecs.GetComponent[*components.AudioSourceComponent](em, id)
		src.Active = true
	}
	if got := pool.AcquireFree(); got != ids[2] {
		t.Errorf("Expected third source %d, got %d", ids[2], got)
	}

	// 释放第一个,first-fit 应重新返回它
	src, _ := ecs.GetComponent[*components.AudioSourceComponent](em, ids[0])
	src.Active = false
	if got := pool.AcquireFree(); got != ids[0] {
		t.Errorf("Expected first-fit %d, got %d", ids[0], got)
	}
}

func TestSourcePool_GrowsWhenExhausted(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := newBarePool(em)
	pool.Warm(1)

	src, _ := ecs.GetComponent[*components.AudioSourceComponent](em, pool.Sources()[0])
	src.Active = true

	id := pool.AcquireFree()
	if pool.Size() != 2 {
		t.Fatalf("Expected pool to grow to 2, got %d", pool.Size())
	}
	if !pool.Contains(id) || id == pool.Sources()[0] {
		t.Errorf("Expected new source appended, got %d", id)
	}
	if pool.Sources()[1] != id {
		t.Errorf("New source should be last in creation order")
	}
}

func TestSourcePool_SourcesIsCopy(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := newBarePool(em)
	pool.Warm(1)

	ids := pool.Sources()
	ids[0] = 999
	if pool.Sources()[0] == 999 {
		t.Error("Sources should return a copy")
	}
}
