// Package schedule 提供输入驱动的重新生成调度。
package schedule

import (
	"sync"
	"time"
)

// DefaultWindow 是输入停止后到重新生成之间的等待时间。
const DefaultWindow = 50 * time.Millisecond

// Debouncer 合并短时间内的连续触发：只有最后一次触发会在窗口结束后执行。
// 任务串行执行，同一时刻最多一个任务在运行。
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool

	run sync.Mutex // 串行化任务执行
}

// New 创建一个窗口为 window 的 Debouncer；window<=0 时使用 DefaultWindow。
func New(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window}
}

// Window 返回等待窗口。
func (d *Debouncer) Window() time.Duration { return d.window }

// Trigger 取消尚未开始的任务，并在窗口结束后执行 fn。
// 已经开始运行的任务不会被打断，新任务会等它结束后再执行。
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || fn == nil {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq, fn) })
}

func (d *Debouncer) fire(seq uint64, fn func()) {
	d.run.Lock()
	defer d.run.Unlock()

	// 等待期间如果又有新的触发，本任务作废。
	d.mu.Lock()
	current := seq == d.seq && !d.stopped
	d.mu.Unlock()
	if !current {
		return
	}
	fn()
}

// Stop 取消待执行的任务，之后的 Trigger 不再生效。正在运行的任务会执行完毕。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
