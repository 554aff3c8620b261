package controller

import (
	"context"
	"sync"
	"time"
)

// Scheduler 以固定周期调用 fn，没有退避、抖动，也不跳过仍在进行中的调用
type Scheduler struct {
	interval time.Duration
	fn       func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewScheduler 创建定时器，interval 必须为正
func NewScheduler(interval time.Duration, fn func()) *Scheduler {
	return &Scheduler{
		interval: interval,
		fn:       fn,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动定时循环，只能调用一次；ctx 结束或 Stop 后退出
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.fn()
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop 停止定时循环并等待其退出
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}
