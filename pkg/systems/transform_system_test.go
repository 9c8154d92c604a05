package systems

import (
	"testing"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/entities"
	"github.com/decker502/zsurvive/pkg/game"
	"github.com/jakecoffman/cp"
)

func TestTransformSystem_ChildFollowsParent(t *testing.T) {
	em := ecs.NewEntityManager()
	parent := em.CreateEntity()
	em.AddComponent(parent, &components.TransformComponent{Position: cp.Vector{X: 100, Y: 100}})
	child := em.CreateEntity()
	em.AddComponent(child, &components.TransformComponent{Parent: parent, LocalOffset: cp.Vector{X: 5, Y: -5}})
	grandchild := em.CreateEntity()
	em.AddComponent(grandchild, &components.TransformComponent{Parent: child, LocalOffset: cp.Vector{X: 1, Y: 1}})

	sys := NewTransformSystem(em, nil)
	sys.Update(0.016)

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, grandchild)
	if tr.Position != (cp.Vector{X: 106, Y: 96}) {
		t.Errorf("Expected grandchild at (106,96), got %v", tr.Position)
	}

	ptr, _ := ecs.GetComponent[*components.TransformComponent](em, parent)
	ptr.Position = cp.Vector{X: 0, Y: 0}
	sys.Update(0.016)
	ctr, _ := ecs.GetComponent[*components.TransformComponent](em, child)
	if ctr.Position != (cp.Vector{X: 5, Y: -5}) {
		t.Errorf("Child should follow the moved parent, got %v", ctr.Position)
	}
}

func TestTransformSystem_OrphanDetachesToRoot(t *testing.T) {
	em := ecs.NewEntityManager()
	parent := em.CreateEntity()
	em.AddComponent(parent, &components.TransformComponent{Position: cp.Vector{X: 40, Y: 0}})
	child := em.CreateEntity()
	em.AddComponent(child, &components.TransformComponent{Parent: parent, LocalOffset: cp.Vector{X: 2, Y: 0}})

	sys := NewTransformSystem(em, nil)
	sys.Update(0.016)
	em.DestroyEntity(parent)
	sys.Update(0.016)

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, child)
	if tr.Parent != 0 {
		t.Errorf("Orphan should detach to root, parent=%d", tr.Parent)
	}
	if tr.Position != (cp.Vector{X: 42, Y: 0}) || tr.LocalOffset != tr.Position {
		t.Errorf("Orphan should keep its world position, got pos=%v offset=%v", tr.Position, tr.LocalOffset)
	}
}

func TestTransformSystem_OnLostParentCallback(t *testing.T) {
	em := ecs.NewEntityManager()
	parent := em.CreateEntity()
	em.AddComponent(parent, &components.TransformComponent{})
	a := em.CreateEntity()
	em.AddComponent(a, &components.TransformComponent{Parent: parent})
	b := em.CreateEntity()
	em.AddComponent(b, &components.TransformComponent{Parent: parent})

	var lost []ecs.EntityID
	sys := NewTransformSystem(em, func(ids []ecs.EntityID) { lost = append(lost, ids...) })
	sys.Update(0.016)
	if len(lost) != 0 {
		t.Fatalf("No orphans expected yet, got %v", lost)
	}

	em.DestroyEntity(parent)
	sys.Update(0.016)
	if len(lost) != 2 || lost[0] != a || lost[1] != b {
		t.Errorf("Expected orphans [%d %d], got %v", a, b, lost)
	}
}

// 僵尸被销毁时,挂在它身上的音效发声器回到收纳节点并随后被回收。
func TestTransformSystem_DestroyedZombieReturnsAttachedSource(t *testing.T) {
	r := newAudioRig(t, nil)
	space := cp.NewSpace()
	zombie, err := entities.NewZombieEntity(r.em, space, cp.Vector{X: 300, Y: 200}, 0)
	if err != nil {
		t.Fatalf("Failed to create zombie: %v", err)
	}

	r.am.PlayPooledEffect(clipOf("groan", 0.1), false, zombie, true)
	id := r.am.Pool().Sources()[0]

	transforms := NewTransformSystem(r.em, func(ids []ecs.EntityID) {
		for _, orphan := range ids {
			if ecs.HasComponent[*components.AudioSourceComponent](r.em, orphan) {
				r.am.ReturnSourceToHoldingArea(orphan)
				continue
			}
			game.SetParent(r.em, orphan, 0)
		}
	})

	ztr, _ := ecs.GetComponent[*components.TransformComponent](r.em, zombie)
	ztr.Position = cp.Vector{X: 310, Y: 200}
	transforms.Update(0.125)
	if got := r.transform(id).Position; got != (cp.Vector{X: 310, Y: 200}) {
		t.Fatalf("Attached source should follow the zombie, got %v", got)
	}

	entities.DestroyZombieEntity(r.em, space, zombie)
	transforms.Update(0.125)
	r.em.RemoveMarkedEntities()

	tr := r.transform(id)
	if tr.Parent != r.am.Holding() {
		t.Errorf("Source should be under holding, parent=%d", tr.Parent)
	}
	if tr.Position != (cp.Vector{X: 310, Y: 200}) {
		t.Errorf("Source should keep its last world position, got %v", tr.Position)
	}
	if !r.em.Exists(id) {
		t.Fatal("Pooled source must survive its anchor")
	}

	for i := 0; i < 4; i++ {
		r.tick(0.125)
	}
	if !r.source(id).IsFree() {
		t.Error("Returned source should be freed by its cleanup task")
	}
}
