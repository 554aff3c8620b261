package state

import (
	"fmt"
	"slices"
	"sync"

	"crypto-dashboard/internal/model"
)

// Choice 是一组互斥选项 (支付方式、标签页)，任意时刻最多一个被选中
type Choice struct {
	mu       sync.RWMutex
	name     string
	options  []string
	selected string // 空字符串表示尚未选择
}

// NewChoice 创建选项组，initial 为空表示初始无选中项
func NewChoice(name string, options []string, initial string) (*Choice, error) {
	c := &Choice{name: name, options: slices.Clone(options)}
	if initial != "" {
		if err := c.Select(initial); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Choice) Name() string {
	return c.name
}

func (c *Choice) Options() []string {
	return slices.Clone(c.options)
}

// Select 选中 key，同组其它选项自动取消；未知 key 不改变当前状态
func (c *Choice) Select(key string) error {
	if !slices.Contains(c.options, key) {
		return fmt.Errorf("%s option %q: %w", c.name, key, model.ErrUnknownOption)
	}
	c.mu.Lock()
	c.selected = key
	c.mu.Unlock()
	return nil
}

// Selected 返回当前选中项
func (c *Choice) Selected() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected, c.selected != ""
}
