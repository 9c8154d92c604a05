package game

// PauseSignal 全局时间缩放
// 返回 0 表示游戏时间冻结(暂停菜单)
type PauseSignal interface {
	TimeScale() float64
}

// Clock 游戏时钟
// 区分缩放时间(受暂停影响)与非缩放时间(真实时间),
// 清理调度与混音器淡入淡出都使用非缩放时间。
type Clock struct {
	timeScale    float64
	time         float64 // 累计缩放时间(秒)
	unscaledTime float64 // 累计真实时间(秒)
	lastDelta    float64 // 上一帧真实时间增量
}

// NewClock 创建时间缩放为 1 的时钟
func NewClock() *Clock {
	return &Clock{timeScale: 1}
}

// Tick 推进一帧
// 参数: realDelta - 本帧真实经过的时间(秒)
// 返回: 本帧缩放后的时间增量
func (c *Clock) Tick(realDelta float64) float64 {
	if realDelta < 0 {
		realDelta = 0
	}
	c.lastDelta = realDelta
	c.unscaledTime += realDelta
	scaled := realDelta * c.timeScale
	c.time += scaled
	return scaled
}

// TimeScale 实现 PauseSignal
func (c *Clock) TimeScale() float64 {
	return c.timeScale
}

// SetTimeScale 设置时间缩放(负数按 0 处理)
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// IsPaused 时间缩放是否为 0
func (c *Clock) IsPaused() bool {
	return c.timeScale == 0
}

// Time 累计缩放时间
func (c *Clock) Time() float64 { return c.time }

// UnscaledTime 累计真实时间
func (c *Clock) UnscaledTime() float64 { return c.unscaledTime }

// UnscaledDeltaTime 上一帧真实时间增量
func (c *Clock) UnscaledDeltaTime() float64 { return c.lastDelta }
