package utils

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

// OpenStore 打开偏好设置存储
//
// 参数：
//   - appName: 应用名,决定 gdata 的存储目录
//
// 返回：
//   - *gdata.Manager: 存储管理器
//   - error: 存储目录不可用或 gdata 初始化失败时返回错误;
//     调用方通常降级为仅内存设置
func OpenStore(appName string) (*gdata.Manager, error) {
	if err := EnsureStorageDir(); err != nil {
		return nil, err
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store %q: %w", appName, err)
	}
	return manager, nil
}
