package dom

import "bytes"

// Equals 深度结构相等
//
// 标签必须一致；数字按值比较，字符串按长度+字节比较，数组按长度与
// 顺序逐个递归比较。对象比较与顺序无关: 成员数相等，且左侧每个成员的
// 键都能在右侧找到（首个匹配）深度相等的值。单向包含 + 数量相等视为
// 相等是沿用下来的既有行为，不在此"修正"。
func (v *Value) Equals(o *Value) bool {
	if v.Type() != o.Type() {
		return false
	}
	switch v.Type() {
	case TypeNumber:
		return v.n == o.n
	case TypeString:
		return bytes.Equal(v.s, o.s)
	case TypeArray:
		if len(v.a) != len(o.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equals(&o.a[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(v.m) != len(o.m) {
			return false
		}
		for i := range v.m {
			ov := o.FindKeyValue(v.m[i].k)
			if ov == nil || !v.m[i].v.Equals(ov) {
				return false
			}
		}
		return true
	default:
		// null/true/false: 标签即全部状态
		return true
	}
}

// Equal 包级形式的深度相等（两个参数都允许 nil，nil 读作 null）
func Equal(a, b *Value) bool { return a.Equals(b) }
