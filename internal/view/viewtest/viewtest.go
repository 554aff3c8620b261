// Package viewtest 提供记录型的展示层实现，供测试注入 Renderer
package viewtest

import (
	"sync"

	"crypto-dashboard/internal/view"
)

// Recorder 记录所有字段写入，只保留每个字段属性的最后一次值
type Recorder struct {
	mu      sync.Mutex
	fields  map[string]view.Update
	writes  int
	notices []view.Notice
}

func NewRecorder() *Recorder {
	return &Recorder{fields: make(map[string]view.Update)}
}

func (r *Recorder) Write(updates ...view.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		r.fields[u.Key()] = u
		r.writes++
	}
}

func (r *Recorder) Notify(n view.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Get 返回某个字段属性的最后一次写入值
func (r *Recorder) Get(field string, prop view.Prop) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.fields[field+"#"+string(prop)]
	return u.Value, ok
}

func (r *Recorder) Text(field string) string {
	v, _ := r.Get(field, view.PropText)
	return v
}

func (r *Recorder) Value(field string) string {
	v, _ := r.Get(field, view.PropValue)
	return v
}

func (r *Recorder) Class(field string) string {
	v, _ := r.Get(field, view.PropClass)
	return v
}

// Active 返回选项组当前被标记的选项
func (r *Recorder) Active(group string) string {
	v, _ := r.Get(group, view.PropActive)
	return v
}

// Items 返回列表字段的最后一次内容
func (r *Recorder) Items(field string) []view.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fields[field+"#"+string(view.PropItems)].Items
}

// Fields 返回全部字段的副本
func (r *Recorder) Fields() map[string]view.Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]view.Update, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *Recorder) Notices() []view.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]view.Notice(nil), r.notices...)
}

// Charts 记录图表的创建与销毁
type Charts struct {
	mu      sync.Mutex
	specs   []view.ChartSpec
	live    int
	maxLive int
	err     error
}

func NewCharts() *Charts {
	return &Charts{}
}

// FailWith 之后的 Create 调用都返回 err (nil 恢复正常)
func (c *Charts) FailWith(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *Charts) Create(spec view.ChartSpec) (view.Chart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.specs = append(c.specs, spec)
	c.live++
	if c.live > c.maxLive {
		c.maxLive = c.live
	}
	return &chart{owner: c}, nil
}

// Live 当前未销毁的图表实例数
func (c *Charts) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// MaxLive 历史上同时存活的最大实例数
func (c *Charts) MaxLive() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxLive
}

func (c *Charts) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.specs)
}

// Last 返回最后一次创建的图表描述
func (c *Charts) Last() (view.ChartSpec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.specs) == 0 {
		return view.ChartSpec{}, false
	}
	return c.specs[len(c.specs)-1], true
}

type chart struct {
	owner     *Charts
	destroyed bool
}

func (ch *chart) Destroy() {
	ch.owner.mu.Lock()
	defer ch.owner.mu.Unlock()
	if ch.destroyed {
		return
	}
	ch.destroyed = true
	ch.owner.live--
}
