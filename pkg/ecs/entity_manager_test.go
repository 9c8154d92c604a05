package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testSourceComponent struct {
	Clip   string
	Active bool
}

type testTransformComponent struct {
	X, Y   float64
	Parent EntityID
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// ID从1开始,0保留
	if id1 != 1 || id2 != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", id1, id2)
	}
	if em.Count() != 2 {
		t.Errorf("Expected 2 entities, got %d", em.Count())
	}
	if em.Exists(0) {
		t.Error("ID 0 must never exist")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testSourceComponent{Clip: "groan"})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testSourceComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}
	if comp.(*testSourceComponent).Clip != "groan" {
		t.Errorf("Component data mismatch, got %+v", comp)
	}

	// 同类型组件覆盖旧值
	em.AddComponent(id, &testSourceComponent{Clip: "bite"})
	src, _ := GetComponent[*testSourceComponent](em, id)
	if src.Clip != "bite" {
		t.Errorf("Expected replaced component, got %q", src.Clip)
	}
}

func TestAddComponent_UnknownEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(42, &testSourceComponent{})
	if em.Exists(42) || HasComponent[*testSourceComponent](em, 42) {
		t.Error("AddComponent must not create entities")
	}
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testSourceComponent{})
	em.AddComponent(id, &testTransformComponent{})

	RemoveComponent[*testSourceComponent](em, id)

	if HasComponent[*testSourceComponent](em, id) {
		t.Error("Source component should be removed")
	}
	if !HasComponent[*testTransformComponent](em, id) {
		t.Error("Transform component should remain")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testSourceComponent{})

	em.DestroyEntity(id)
	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.Exists(id) || !em.IsMarkedForDestroy(id) {
		t.Error("Entity should still exist and be marked before cleanup")
	}

	removed := em.RemoveMarkedEntities()
	if len(removed) != 1 || removed[0] != id {
		t.Errorf("Expected [%d] removed once, got %v", id, removed)
	}
	if em.Exists(id) || em.IsMarkedForDestroy(id) {
		t.Error("Entity should be gone after cleanup")
	}
	if em.RemoveMarkedEntities() != nil {
		t.Error("Second cleanup should remove nothing")
	}
}

func TestDestroyEntity_Unknown(t *testing.T) {
	em := NewEntityManager()
	em.DestroyEntity(7)
	if removed := em.RemoveMarkedEntities(); len(removed) != 0 {
		t.Errorf("Unknown entity should not be queued, got %v", removed)
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	ids := make([]EntityID, 0)
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testTransformComponent{})
		if i%2 == 0 {
			em.AddComponent(id, &testSourceComponent{})
			ids = append(ids, id)
		}
	}

	both := GetEntitiesWith2[*testSourceComponent, *testTransformComponent](em)
	if !reflect.DeepEqual(both, ids) {
		t.Errorf("Expected %v in creation order, got %v", ids, both)
	}

	all := GetEntitiesWith1[*testTransformComponent](em)
	if len(all) != 20 {
		t.Errorf("Expected 20 entities, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("Query result not sorted: %v", all)
		}
	}
}

func TestGetComponentGeneric_Missing(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	src, ok := GetComponent[*testSourceComponent](em, id)
	if ok || src != nil {
		t.Error("Missing component should return zero value and false")
	}
	if _, ok := GetComponent[*testSourceComponent](em, 99); ok {
		t.Error("Missing entity should return false")
	}
}
