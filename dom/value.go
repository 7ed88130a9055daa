package dom

import "unsafe"

// Type JSON 值类型
type Type uint8

const (
	TypeNull   Type = iota // null
	TypeTrue               // true
	TypeFalse              // false
	TypeNumber             // 浮点数
	TypeString             // 字符串
	TypeArray              // 数组
	TypeObject             // 对象
)

// String 返回类型名称
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value JSON 值（所有权树节点）
//
// 标签 t 唯一决定哪个载荷字段有效。Array/Object 独占拥有全部子值，
// 树自底向上构建，不共享、无环。字符串是拥有长度的字节缓冲，
// 可以包含内嵌 NUL 字节。
//
// true/false 拆为两个类型常量（fastjson 同款设计），无布尔载荷字段。
type Value struct {
	m []Member // TypeObject: 有序成员
	a []Value  // TypeArray: 子值
	s []byte   // TypeString: 拥有的字节
	n float64  // TypeNumber
	t Type
}

// Member 对象成员（拥有的键字节 + 值），按插入顺序保存
//
// 键不去重: 重复键合法且全部保留，按键查找返回第一个匹配。
type Member struct {
	k []byte
	v Value
}

// Key 返回成员键的字节
func (m *Member) Key() []byte { return m.k }

// Value 返回成员值
func (m *Member) Value() *Value { return &m.v }

// ─── 类型判断与取值（nil 安全: nil 视为 null，类型不匹配返回零值） ───

// Type 返回值类型
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.t
}

// IsNull 是否为 null
func (v *Value) IsNull() bool { return v == nil || v.t == TypeNull }

// IsArray 是否为数组
func (v *Value) IsArray() bool { return v != nil && v.t == TypeArray }

// IsObject 是否为对象
func (v *Value) IsObject() bool { return v != nil && v.t == TypeObject }

// Bool 返回布尔值（仅 TypeTrue 为 true）
func (v *Value) Bool() bool { return v != nil && v.t == TypeTrue }

// Number 返回浮点数值
func (v *Value) Number() float64 {
	if v == nil || v.t != TypeNumber {
		return 0
	}
	return v.n
}

// StringBytes 返回字符串内容的字节（拥有的缓冲，长度与内嵌 NUL 无关）
func (v *Value) StringBytes() []byte {
	if v == nil || v.t != TypeString {
		return nil
	}
	return v.s
}

// Len 返回数组元素数或对象成员数
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.t {
	case TypeArray:
		return len(v.a)
	case TypeObject:
		return len(v.m)
	default:
		return 0
	}
}

// Elem 返回数组第 i 个元素（越界或非数组返回 nil）
func (v *Value) Elem(i int) *Value {
	if v == nil || v.t != TypeArray || i < 0 || i >= len(v.a) {
		return nil
	}
	return &v.a[i]
}

// MemberAt 返回对象第 i 个成员（越界或非对象返回 nil）
func (v *Value) MemberAt(i int) *Member {
	if v == nil || v.t != TypeObject || i < 0 || i >= len(v.m) {
		return nil
	}
	return &v.m[i]
}

// ArrayEach 遍历数组元素，返回 false 停止遍历
func (v *Value) ArrayEach(fn func(i int, elem *Value) bool) {
	if v == nil || v.t != TypeArray {
		return
	}
	for i := range v.a {
		if !fn(i, &v.a[i]) {
			return
		}
	}
}

// ObjectEach 遍历对象成员（保持插入顺序，重复键全部出现），返回 false 停止遍历
func (v *Value) ObjectEach(fn func(key []byte, val *Value) bool) {
	if v == nil || v.t != TypeObject {
		return
	}
	for i := range v.m {
		if !fn(v.m[i].k, &v.m[i].v) {
			return
		}
	}
}

// ─── 生命周期 ───

// Free 递归释放值的全部子内容并将标签重置为 null
//
// 幂等: 再次 Free 是空操作而非崩溃。nil 安全。
// 子值引用被置空，避免复用的暂存槽位延长已死子树的生命周期。
func (v *Value) Free() {
	if v == nil {
		return
	}
	switch v.t {
	case TypeArray:
		for i := range v.a {
			v.a[i].Free()
		}
		v.a = nil
	case TypeObject:
		for i := range v.m {
			v.m[i].v.Free()
			v.m[i].k = nil
		}
		v.m = nil
	case TypeString:
		v.s = nil
	}
	v.n = 0
	v.t = TypeNull
}

// SetString 先释放旧内容，再将值设为 src 的拥有拷贝
func (v *Value) SetString(src []byte) {
	if v == nil {
		return
	}
	v.Free()
	v.s = make([]byte, len(src))
	copy(v.s, src)
	v.t = TypeString
}

// ─── 辅助函数 ───

// s2b 零拷贝 string → []byte
func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// b2s 零拷贝 []byte → string
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
