package dom

// stackInitSize 暂存栈初始容量
const stackInitSize = 256

// stack 可增长 LIFO 暂存栈，解析/序列化的公共暂存区
//
// push 在栈顶保留 n 个槽位并返回该区域，容量不足时按 ≥50% 扩容
// （size += size >> 1）；pop 收缩栈顶并返回刚被排除的区域。
//
// 扩容会搬迁底层数组，之前 push/pop 返回的切片随即失效。
// 持有规则: 跨越下一次 push 的引用必须改存偏移量（save 返回的 mark），
// 不得保留切片本身。解析器对数组/对象子值只记 mark，正是这个约束。
type stack[T any] struct {
	buf []T
	top int
}

// push 保留栈顶 n 个槽位，返回可写区域（下次 push 前有效）
func (s *stack[T]) push(n int) []T {
	need := s.top + n
	if need > len(s.buf) {
		size := len(s.buf)
		if size == 0 {
			size = stackInitSize
		}
		for need > size {
			size += size >> 1
		}
		grown := make([]T, size)
		copy(grown, s.buf[:s.top])
		s.buf = grown
	}
	r := s.buf[s.top:need]
	s.top = need
	return r
}

// pop 收缩栈顶 n 个槽位，返回被排除的区域（下次 push 前有效）
func (s *stack[T]) pop(n int) []T {
	s.top -= n
	return s.buf[s.top : s.top+n]
}

// save 返回当前栈顶偏移量，与 rollback 配对实现错误回退
func (s *stack[T]) save() int { return s.top }

// rollback 回退栈顶到 mark
//
// 不清零被丢弃的槽位，调用方负责先释放其中的引用
// （字节栈无引用可直接回退）。
func (s *stack[T]) rollback(mark int) { s.top = mark }

// reset 清空栈（保留容量复用）
func (s *stack[T]) reset() { s.top = 0 }
