package components

// CleanupState 清理任务状态
type CleanupState int

const (
	// CleanupWaitingForDialogueEnd 等待对白播放结束(仅对白任务进入)
	CleanupWaitingForDialogueEnd CleanupState = iota
	// CleanupFixedDelay 固定延迟倒计时(非缩放时间)
	CleanupFixedDelay
	// CleanupDone 已结束
	CleanupDone
)

// String 返回状态名称
func (s CleanupState) String() string {
	switch s {
	case CleanupWaitingForDialogueEnd:
		return "WaitingForDialogueEnd"
	case CleanupFixedDelay:
		return "FixedDelay"
	case CleanupDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// SourceCleanupComponent 发声器的延迟清理任务
// 挂在发声器实体上,组件按类型存储,因此每个发声器最多只有一个任务;
// 新任务直接覆盖旧任务。
type SourceCleanupComponent struct {
	State       CleanupState
	Remaining   float64 // 剩余倒计时(秒,非缩放时间)
	Dialogue    bool    // 专用对白通道任务
	ResetParent bool    // 结束时挂回音源池的收纳节点
	Generation  uint64  // 创建任务时发声器的 Generation
}
