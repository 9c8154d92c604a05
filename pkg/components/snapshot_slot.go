package components

// SnapshotSlotComponent 音乐/环境音发声器所属的快照槽(0 或 1)
// SpatialAudioSystem 用混音器中该槽的权重调整增益
type SnapshotSlotComponent struct {
	Slot int
}
