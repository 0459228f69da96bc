package notification

import (
	"fmt"
	"time"
)

// Service 领域服务（纯业务逻辑）
type Service struct{}

// NewService 创建领域服务
func NewService() *Service {
	return &Service{}
}

// HorizonLabel 把提醒窗口格式化为提醒中的剩余时间标签
// 5m -> "5 minutes"，1m -> "1 minute"，90s -> "90 seconds"
func (s *Service) HorizonLabel(horizon time.Duration) string {
	switch {
	case horizon >= time.Hour && horizon%time.Hour == 0:
		return plural(int64(horizon/time.Hour), "hour")
	case horizon >= time.Minute && horizon%time.Minute == 0:
		return plural(int64(horizon/time.Minute), "minute")
	default:
		return plural(int64(horizon/time.Second), "second")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
