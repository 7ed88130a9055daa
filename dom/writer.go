package dom

import (
	"fmt"
	"math"
	"strconv"
	"sync"
)

// Writer JSON 序列化器（紧凑输出，无插入空白）
//
// 输出文本在字节栈上累积，成功后一次性拷贝为拥有的切片返回。
// 一次 Stringify 调用独占一个 Writer 实例，不跨调用共享。
//
// 用法:
//
//	w := dom.AcquireWriter()
//	defer dom.ReleaseWriter(w)
//	out, err := w.Stringify(v)
type Writer struct {
	buf     stack[byte]
	scratch [32]byte // strconv 缓冲（避免分配）
}

// ─── Pool ───

var writerPool = sync.Pool{
	New: func() any { return new(Writer) },
}

// AcquireWriter 从池中获取 Writer
func AcquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.buf.reset()
	return w
}

// ReleaseWriter 归还 Writer 到池中
func ReleaseWriter(w *Writer) {
	// 保留小 buffer，释放大 buffer（防内存泄漏）
	if len(w.buf.buf) > 1<<16 {
		w.buf = stack[byte]{}
	}
	writerPool.Put(w)
}

// Stringify 将值树渲染为紧凑 JSON 文本
//
// 返回拥有的字节切片，长度即文本长度（内嵌 NUL 的字符串内容照常渲染）。
// 非法标签整体失败，不返回部分文本。
func (w *Writer) Stringify(v *Value) ([]byte, error) {
	w.buf.reset()
	if err := w.writeValue(v); err != nil {
		return nil, err
	}
	text := w.buf.pop(w.buf.save())
	out := make([]byte, len(text))
	copy(out, text)
	return out, nil
}

// Stringify 包级便捷入口（内部使用池化 Writer）
func Stringify(v *Value) ([]byte, error) {
	w := AcquireWriter()
	defer ReleaseWriter(w)
	return w.Stringify(v)
}

// writeValue 递归渲染单个值
func (w *Writer) writeValue(v *Value) error {
	switch v.Type() {
	case TypeNull:
		w.raw("null")
	case TypeTrue:
		w.raw("true")
	case TypeFalse:
		w.raw("false")
	case TypeNumber:
		return w.writeNumber(v.n)
	case TypeString:
		w.writeQuoted(v.s)
	case TypeArray:
		w.putc('[')
		for i := range v.a {
			if i > 0 {
				w.putc(',')
			}
			if err := w.writeValue(&v.a[i]); err != nil {
				return err
			}
		}
		w.putc(']')
	case TypeObject:
		w.putc('{')
		for i := range v.m {
			if i > 0 {
				w.putc(',')
			}
			w.writeQuoted(v.m[i].k)
			w.putc(':')
			if err := w.writeValue(&v.m[i].v); err != nil {
				return err
			}
		}
		w.putc('}')
	default:
		return fmt.Errorf("dom: cannot stringify value of type %d", v.t)
	}
	return nil
}

// writeNumber 渲染数字
//
// strconv 最短往返格式: 重新解析必然还原出相同的 float64 位模式。
// NaN/±Inf 在 JSON 中没有表示（只可能来自手工构造的值），整体失败。
func (w *Writer) writeNumber(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("dom: cannot stringify non-finite number %v", f)
	}
	w.rawBytes(strconv.AppendFloat(w.scratch[:0], f, 'g', -1, 64))
	return nil
}

// writeQuoted 渲染带引号和转义的字符串内容
//
// 短转义: " \ \b \f \n \r \t；其余 < 0x20 的字节用 \u00XX；
// 其他字节原样通过（'/' 不转义）。
// 优化: 先扫描是否需要转义（大部分字符串不需要）。
func (w *Writer) writeQuoted(s []byte) {
	w.putc('"')

	needsEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' {
			needsEscape = true
			break
		}
	}

	if !needsEscape {
		w.rawBytes(s)
		w.putc('"')
		return
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			w.raw(`\"`)
		case c == '\\':
			w.raw(`\\`)
		case c == '\b':
			w.raw(`\b`)
		case c == '\f':
			w.raw(`\f`)
		case c == '\n':
			w.raw(`\n`)
		case c == '\r':
			w.raw(`\r`)
		case c == '\t':
			w.raw(`\t`)
		case c < 0x20:
			w.raw(`\u00`)
			w.putc(hexDigit[c>>4])
			w.putc(hexDigit[c&0xF])
		default:
			w.putc(c)
		}
	}
	w.putc('"')
}

var hexDigit = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// ─── 字节栈写入原语 ───

func (w *Writer) putc(c byte) {
	w.buf.push(1)[0] = c
}

func (w *Writer) raw(s string) {
	copy(w.buf.push(len(s)), s)
}

func (w *Writer) rawBytes(b []byte) {
	copy(w.buf.push(len(b)), b)
}
