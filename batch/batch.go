// Package batch 并发批量解析前端
//
// 每篇文档仍是一次完整的同步解析（独立暂存栈，单调用单实例），
// batch 只负责把多篇文档摊到固定大小的 goroutine 池上。
package batch

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/uniyakcom/canopy/dom"
)

// Result 单篇文档的解析结果
//
// Err 非 nil 时 Value 为 nil（标签读作 null，Free 仍然安全）。
type Result struct {
	Value *dom.Value
	Err   error
}

// Config 池配置
type Config struct {
	Workers int // worker 数量（0 = NumCPU/2，最小 1）
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	w := runtime.NumCPU() / 2
	if w < 1 {
		w = 1
	}
	return &Config{Workers: w}
}

// Stats 运行时统计
type Stats struct {
	Parsed int64 // 成功解析的文档数
	Failed int64 // 解析失败的文档数
}

// Pool 固定大小的批量解析池（基于 ants goroutine 池）
type Pool struct {
	gPool  *ants.Pool
	closed atomic.Bool

	parsed atomic.Int64
	failed atomic.Int64
}

// New 创建批量解析池
func New(cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}
	gp, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("batch: create worker pool: %w", err)
	}
	return &Pool{gPool: gp}, nil
}

// ParseAll 并发解析全部文档，结果按输入顺序返回
//
// 单篇失败不影响其他文档；每个 Result 独立携带值或错误。
func (p *Pool) ParseAll(docs []string) []Result {
	results := make([]Result, len(docs))
	var wg sync.WaitGroup
	for k := range docs {
		k := k
		wg.Add(1)
		if err := p.gPool.Submit(func() {
			defer wg.Done()
			v, err := dom.Parse(docs[k])
			if err != nil {
				p.failed.Add(1)
			} else {
				p.parsed.Add(1)
			}
			results[k] = Result{Value: v, Err: err}
		}); err != nil {
			// 池已关闭或容量耗尽: 该文档直接记为失败
			wg.Done()
			p.failed.Add(1)
			results[k] = Result{Err: fmt.Errorf("batch: submit document %d: %w", k, err)}
		}
	}
	wg.Wait()
	return results
}

// Stats 返回运行时统计
func (p *Pool) Stats() Stats {
	return Stats{
		Parsed: p.parsed.Load(),
		Failed: p.failed.Load(),
	}
}

// Close 关闭池（等待在途任务完成）
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return // 已关闭
	}
	p.gPool.Release()
}

// Drain 优雅关闭（等待在途任务完成或超时）
func (p *Pool) Drain(timeout time.Duration) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil // 已关闭
	}
	if timeout <= 0 {
		p.gPool.Release()
		return nil
	}
	if err := p.gPool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("batch: graceful close timed out after %v: %w", timeout, err)
	}
	return nil
}

// ValidateAll 并发校验全部文档，遇到首个语法错误即失败
//
// 只做语法校验，值树即抛（解析后立即 Free）。
// 返回的错误带文档下标，可用 dom.CodeOf 取状态码。
func ValidateAll(docs []string) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for k := range docs {
		k := k
		g.Go(func() error {
			v, err := dom.Parse(docs[k])
			if err != nil {
				return fmt.Errorf("batch: document %d: %w", k, err)
			}
			v.Free()
			return nil
		})
	}
	return g.Wait()
}
