package game

import (
	"log"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
)

// SourceFactory 发声器工厂
// 参数 holding 是收纳节点;返回一个挂在收纳节点下、处于空闲状态的新发声器实体
type SourceFactory func(holding ecs.EntityID) ecs.EntityID

// SourcePool 音效发声器池
//
// 策略:
//   - 按创建顺序线性查找第一个未激活的发声器(first-fit,不是 LRU)
//   - 找不到时通过工厂创建一个并追加到末尾
//   - 容量只增不减,发声器在池存在期间不会被销毁
type SourcePool struct {
	em      *ecs.EntityManager
	factory SourceFactory
	holding ecs.EntityID
	sources []ecs.EntityID
}

// NewSourcePool 创建空的发声器池
//
// 参数：
//   - em: 实体管理器
//   - holding: 收纳节点实体(空闲发声器的父节点)
//   - factory: 发声器工厂
//
// 返回：
//   - *SourcePool: 发声器池实例
func NewSourcePool(em *ecs.EntityManager, holding ecs.EntityID, factory SourceFactory) *SourcePool {
	return &SourcePool{
		em:      em,
		factory: factory,
		holding: holding,
	}
}

// Warm 预创建发声器直到数量达到 n
func (p *SourcePool) Warm(n int) {
	for len(p.sources) < n {
		p.grow()
	}
}

func (p *SourcePool) grow() ecs.EntityID {
	id := p.factory(p.holding)
	p.sources = append(p.sources, id)
	log.Printf("[SourcePool] Created source %d (pool size: %d)", id, len(p.sources))
	return id
}

// AcquireFree 获取一个空闲发声器
// 总是返回可用的发声器,必要时扩容
func (p *SourcePool) AcquireFree() ecs.EntityID {
	for _, id := range p.sources {
		src, ok := ecs.GetComponent[*components.AudioSourceComponent](p.em, id)
		if !ok {
			continue
		}
		if !src.Active {
			return id
		}
	}
	return p.grow()
}

// Size 当前发声器数量
func (p *SourcePool) Size() int {
	return len(p.sources)
}

// Sources 按创建顺序返回所有发声器(副本)
func (p *SourcePool) Sources() []ecs.EntityID {
	out := make([]ecs.EntityID, len(p.sources))
	copy(out, p.sources)
	return out
}

// Holding 收纳节点实体
func (p *SourcePool) Holding() ecs.EntityID {
	return p.holding
}

// Contains 发声器是否属于本池
func (p *SourcePool) Contains(id ecs.EntityID) bool {
	for _, s := range p.sources {
		if s == id {
			return true
		}
	}
	return false
}
