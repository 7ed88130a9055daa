package dom

import (
	"math"
	"strconv"
	"sync"
)

// Parser JSON 解析器（暂存栈可复用）
//
// Parser 持有三个暂存栈: 字符串字节、数组子值、对象成员。
// 解析结果在紧缩（compaction）时全部拷贝为拥有的内存，
// 因此返回的值树与 Parser 生命周期无关，可安全归还池。
//
// 注意: Parser 不是并发安全的，并发场景请使用 AcquireParser/ReleaseParser。
//
// 用法:
//
//	var p dom.Parser
//	v, err := p.Parse(`{"key":"value"}`)
//	defer v.Free()
type Parser struct {
	buf  stack[byte]   // 字符串内容暂存
	vals stack[Value]  // 数组元素暂存
	mems stack[Member] // 对象成员暂存
}

// Parse 解析 JSON 文本，返回根值
//
// 调用方拥有返回的值树，用完应调用 Free（对 nil 也安全）。
// 任何错误下返回 nil 值（nil 的标签读作 null），错误是 *SyntaxError。
func (p *Parser) Parse(s string) (*Value, error) {
	p.reset()
	n := len(s)
	i := 0
	for i < n && isSpace(s[i]) {
		i++
	}
	if i >= n {
		return nil, &SyntaxError{Code: CodeExpectValue, Offset: i}
	}
	v, i, err := p.parseVal(s, i, 0)
	if err != nil {
		return nil, err
	}
	for i < n && isSpace(s[i]) {
		i++
	}
	if i < n {
		// 根值之后还有内容: 释放已建子树，根强制回到 null
		v.Free()
		return nil, &SyntaxError{Code: CodeRootNotSingular, Offset: i}
	}
	root := new(Value)
	*root = v
	return root, nil
}

// ParseBytes 解析 JSON 字节切片
//
// 内容在解析期间全部拷贝，返回的树不引用 b。
func (p *Parser) ParseBytes(b []byte) (*Value, error) {
	return p.Parse(b2s(b))
}

// reset 清理暂存栈（正常路径下栈已平衡，这里兜底清引用）
func (p *Parser) reset() {
	p.buf.reset()
	p.rollbackVals(0)
	p.rollbackMems(0)
}

// ─── 包级便捷入口（池化） ───

// ParserPool 并发安全的 Parser 池
var ParserPool = sync.Pool{
	New: func() any { return new(Parser) },
}

// AcquireParser 从池中获取 Parser
func AcquireParser() *Parser {
	return ParserPool.Get().(*Parser)
}

// ReleaseParser 归还 Parser 到池中
func ReleaseParser(p *Parser) {
	ParserPool.Put(p)
}

// Parse 解析 JSON 文本（内部使用池化 Parser）
func Parse(s string) (*Value, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Parse(s)
}

// ParseBytes 解析 JSON 字节切片（内部使用池化 Parser）
func ParseBytes(b []byte) (*Value, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.ParseBytes(b)
}

// ─── 递归下降引擎（索引模式: 接受 (s, i) 返回 (Value, newI, error)） ───

// isSpace JSON 空白: 空格、制表、回车、换行
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseVal 按首字节分派解析任意 JSON 值
func (p *Parser) parseVal(s string, i, depth int) (Value, int, error) {
	if i >= len(s) {
		return Value{}, i, &SyntaxError{Code: CodeExpectValue, Offset: i}
	}
	switch s[i] {
	case 't':
		return parseLiteral(s, i, "true", TypeTrue)
	case 'f':
		return parseLiteral(s, i, "false", TypeFalse)
	case 'n':
		return parseLiteral(s, i, "null", TypeNull)
	case '"':
		return p.parseString(s, i)
	case '[':
		return p.parseArray(s, i+1, depth+1)
	case '{':
		return p.parseObject(s, i+1, depth+1)
	default:
		return parseNumber(s, i)
	}
}

// parseLiteral 匹配 true/false/null 字面量
func parseLiteral(s string, i int, lit string, t Type) (Value, int, error) {
	if len(s)-i < len(lit) || s[i:i+len(lit)] != lit {
		return Value{}, i, &SyntaxError{Code: CodeInvalidValue, Offset: i}
	}
	return Value{t: t}, i + len(lit), nil
}

// parseNumber 校验严格 JSON 数字语法后转换为 float64
//
// 语法: -? ( 0 | [1-9][0-9]* ) ( \. [0-9]+ )? ( [eE] [+-]? [0-9]+ )?
// 不允许前导 '+'、前导 '.'、裸尾 '.'。
// 溢出到 ±Inf 报 CodeNumberTooBig；下溢出与 strtod 一致按 0 接受。
func parseNumber(s string, i int) (Value, int, error) {
	n := len(s)
	start := i
	if i < n && s[i] == '-' {
		i++
	}
	if i >= n {
		return Value{}, start, &SyntaxError{Code: CodeInvalidValue, Offset: start}
	}
	if s[i] == '0' {
		i++
	} else if s[i] >= '1' && s[i] <= '9' {
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	} else {
		return Value{}, start, &SyntaxError{Code: CodeInvalidValue, Offset: start}
	}
	if i < n && s[i] == '.' {
		i++
		if i >= n || s[i] < '0' || s[i] > '9' {
			return Value{}, start, &SyntaxError{Code: CodeInvalidValue, Offset: start}
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n || s[i] < '0' || s[i] > '9' {
			return Value{}, start, &SyntaxError{Code: CodeInvalidValue, Offset: start}
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	f, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return Value{}, start, &SyntaxError{Code: CodeNumberTooBig, Offset: start}
		}
		// 语法已校验，剩余错误只可能是下溢出（结果 ±0），接受
	}
	return Value{t: TypeNumber, n: f}, i, nil
}

// parseString 解析字符串值（内容拷贝为拥有的字节）
func (p *Parser) parseString(s string, i int) (Value, int, error) {
	raw, end, err := p.scanString(s, i)
	if err != nil {
		return Value{}, end, err
	}
	owned := make([]byte, len(raw))
	copy(owned, raw)
	return Value{t: TypeString, s: owned}, end, nil
}

// scanString 解码引号字符串到字节栈，返回弹出的内容区域
//
// 返回的切片指向暂存栈，下一次 push 前必须拷走。
// 值字符串与对象键共用本函数。
func (p *Parser) scanString(s string, i int) ([]byte, int, error) {
	head := p.buf.save()
	n := len(s)
	i++ // skip opening '"'
	for {
		if i >= n {
			p.buf.rollback(head)
			return nil, i, &SyntaxError{Code: CodeMissQuotationMark, Offset: i}
		}
		c := s[i]
		switch {
		case c == '"':
			return p.buf.pop(p.buf.save() - head), i + 1, nil
		case c == '\\':
			i++
			if i >= n {
				p.buf.rollback(head)
				return nil, i, &SyntaxError{Code: CodeInvalidStringEscape, Offset: i}
			}
			switch s[i] {
			case '"', '\\', '/':
				p.putc(s[i])
				i++
			case 'b':
				p.putc('\b')
				i++
			case 'f':
				p.putc('\f')
				i++
			case 'n':
				p.putc('\n')
				i++
			case 'r':
				p.putc('\r')
				i++
			case 't':
				p.putc('\t')
				i++
			case 'u':
				next, err := p.scanUnicode(s, i)
				if err != nil {
					p.buf.rollback(head)
					return nil, i, err
				}
				i = next
			default:
				p.buf.rollback(head)
				return nil, i, &SyntaxError{Code: CodeInvalidStringEscape, Offset: i}
			}
		case c < 0x20:
			p.buf.rollback(head)
			return nil, i, &SyntaxError{Code: CodeInvalidStringChar, Offset: i}
		default:
			p.putc(c)
			i++
		}
	}
}

// scanUnicode 解码 \uXXXX（含 surrogate pair 组合），UTF-8 重编码后入栈
//
// s[i] == 'u'。高位 surrogate 后必须紧跟第二个 \uXXXX 低位 surrogate；
// 孤立低位 surrogate 同样非法。
func (p *Parser) scanUnicode(s string, i int) (int, error) {
	u, ok := hex4(s, i+1)
	if !ok {
		return i, &SyntaxError{Code: CodeInvalidUnicodeHex, Offset: i + 1}
	}
	i += 5 // skip 'u' + XXXX
	switch {
	case u >= 0xD800 && u <= 0xDBFF:
		if i+1 >= len(s) || s[i] != '\\' || s[i+1] != 'u' {
			return i, &SyntaxError{Code: CodeInvalidUnicodeSurrogate, Offset: i}
		}
		lo, ok := hex4(s, i+2)
		if !ok {
			return i, &SyntaxError{Code: CodeInvalidUnicodeHex, Offset: i + 2}
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return i, &SyntaxError{Code: CodeInvalidUnicodeSurrogate, Offset: i + 2}
		}
		u = 0x10000 + (u-0xD800)<<10 + (lo - 0xDC00)
		i += 6
	case u >= 0xDC00 && u <= 0xDFFF:
		// 孤立低位 surrogate
		return i, &SyntaxError{Code: CodeInvalidUnicodeSurrogate, Offset: i - 4}
	}
	var tmp [4]byte
	w := encodeRune(tmp[:], u)
	copy(p.buf.push(w), tmp[:w])
	return i, nil
}

// putc 追加单字节到字节栈
func (p *Parser) putc(c byte) {
	p.buf.push(1)[0] = c
}

// hex4 解析 4 位十六进制数（大小写不敏感）
func hex4(s string, i int) (rune, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	var u rune
	for k := 0; k < 4; k++ {
		c := s[i+k]
		u <<= 4
		switch {
		case c >= '0' && c <= '9':
			u |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			u |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			u |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return u, true
}

// encodeRune UTF-8 编码（1/2/3/4 字节，避免 import unicode/utf8）
func encodeRune(buf []byte, r rune) int {
	if r < 0x80 {
		buf[0] = byte(r)
		return 1
	}
	if r < 0x800 {
		buf[0] = byte(0xC0 | (r >> 6))
		buf[1] = byte(0x80 | (r & 0x3F))
		return 2
	}
	if r < 0x10000 {
		buf[0] = byte(0xE0 | (r >> 12))
		buf[1] = byte(0x80 | ((r >> 6) & 0x3F))
		buf[2] = byte(0x80 | (r & 0x3F))
		return 3
	}
	buf[0] = byte(0xF0 | (r >> 18))
	buf[1] = byte(0x80 | ((r >> 12) & 0x3F))
	buf[2] = byte(0x80 | ((r >> 6) & 0x3F))
	buf[3] = byte(0x80 | (r & 0x3F))
	return 4
}

// parseArray 解析数组（i 指向 '[' 之后）
//
// 元素先暂存在 vals 栈（只记 mark 不留切片——扩容会搬迁），
// 闭合时弹出并紧缩拷贝为精确大小的拥有切片。
// 中途失败释放全部已暂存元素并回退到 mark。
func (p *Parser) parseArray(s string, i, depth int) (Value, int, error) {
	if depth > MaxDepth {
		return Value{}, i, &SyntaxError{Code: CodeTooDeep, Offset: i - 1}
	}
	n := len(s)
	mark := p.vals.save()
	for i < n && isSpace(s[i]) {
		i++
	}
	if i < n && s[i] == ']' {
		return Value{t: TypeArray}, i + 1, nil
	}
	for {
		for i < n && isSpace(s[i]) {
			i++
		}
		elem, next, err := p.parseVal(s, i, depth)
		if err != nil {
			p.rollbackVals(mark)
			return Value{}, next, err
		}
		i = next
		p.vals.push(1)[0] = elem
		for i < n && isSpace(s[i]) {
			i++
		}
		if i < n && s[i] == ',' {
			i++
			continue
		}
		if i < n && s[i] == ']' {
			count := p.vals.save() - mark
			staged := p.vals.pop(count)
			owned := make([]Value, count)
			copy(owned, staged)
			clear(staged)
			return Value{t: TypeArray, a: owned}, i + 1, nil
		}
		p.rollbackVals(mark)
		return Value{}, i, &SyntaxError{Code: CodeMissCommaOrSquareBracket, Offset: i}
	}
}

// parseObject 解析对象（i 指向 '{' 之后），与 parseArray 同构
//
// 每个成员: '"' 开头的键 → ':' → 值，之后 ',' 继续或 '}' 紧缩收尾。
func (p *Parser) parseObject(s string, i, depth int) (Value, int, error) {
	if depth > MaxDepth {
		return Value{}, i, &SyntaxError{Code: CodeTooDeep, Offset: i - 1}
	}
	n := len(s)
	mark := p.mems.save()
	for i < n && isSpace(s[i]) {
		i++
	}
	if i < n && s[i] == '}' {
		return Value{t: TypeObject}, i + 1, nil
	}
	for {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n || s[i] != '"' {
			p.rollbackMems(mark)
			return Value{}, i, &SyntaxError{Code: CodeMissKey, Offset: i}
		}
		rawKey, next, err := p.scanString(s, i)
		if err != nil {
			p.rollbackMems(mark)
			return Value{}, next, err
		}
		key := make([]byte, len(rawKey))
		copy(key, rawKey)
		i = next
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n || s[i] != ':' {
			p.rollbackMems(mark)
			return Value{}, i, &SyntaxError{Code: CodeMissColon, Offset: i}
		}
		i++ // skip ':'
		for i < n && isSpace(s[i]) {
			i++
		}
		val, next2, err := p.parseVal(s, i, depth)
		if err != nil {
			p.rollbackMems(mark)
			return Value{}, next2, err
		}
		i = next2
		p.mems.push(1)[0] = Member{k: key, v: val}
		for i < n && isSpace(s[i]) {
			i++
		}
		if i < n && s[i] == ',' {
			i++
			continue
		}
		if i < n && s[i] == '}' {
			count := p.mems.save() - mark
			staged := p.mems.pop(count)
			owned := make([]Member, count)
			copy(owned, staged)
			clear(staged)
			return Value{t: TypeObject, m: owned}, i + 1, nil
		}
		p.rollbackMems(mark)
		return Value{}, i, &SyntaxError{Code: CodeMissCommaOrCurlyBracket, Offset: i}
	}
}

// rollbackVals 释放 mark 之后暂存的数组元素并回退栈顶（错误路径）
func (p *Parser) rollbackVals(mark int) {
	staged := p.vals.pop(p.vals.save() - mark)
	for k := range staged {
		staged[k].Free()
	}
}

// rollbackMems 释放 mark 之后暂存的对象成员并回退栈顶（错误路径）
func (p *Parser) rollbackMems(mark int) {
	staged := p.mems.pop(p.mems.save() - mark)
	for k := range staged {
		staged[k].v.Free()
		staged[k].k = nil
	}
}
