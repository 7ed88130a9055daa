package dom

import "bytes"

// NotFound 按键查找未命中的下标
const NotFound = -1

// FindKeyIndex 在对象成员中线性查找 key，返回第一个匹配的下标
//
// 按字节长度 + 内容精确比较；未命中返回 NotFound（不是错误）。
// 非对象返回 NotFound。
func (v *Value) FindKeyIndex(key []byte) int {
	if v == nil || v.t != TypeObject {
		return NotFound
	}
	for i := range v.m {
		if bytes.Equal(v.m[i].k, key) {
			return i
		}
	}
	return NotFound
}

// FindKeyValue 按 key 查找成员值，返回第一个匹配（未命中返回 nil）
func (v *Value) FindKeyValue(key []byte) *Value {
	if i := v.FindKeyIndex(key); i != NotFound {
		return &v.m[i].v
	}
	return nil
}

// ─── 路径查询 ───

// Get 按路径获取嵌套值
//
//	v.Get("user", "name")  // 获取 {"user":{"name":"..."}} 中的 name
//	v.Get("items", "0")    // 获取数组第 0 个元素
//
// 对象按首个匹配键导航，数组段是十进制下标。任一段未命中返回 nil。
func (v *Value) Get(keys ...string) *Value {
	for _, key := range keys {
		if v == nil {
			return nil
		}
		switch v.t {
		case TypeObject:
			v = v.FindKeyValue(s2b(key))
		case TypeArray:
			idx, ok := parseIdx(key)
			if !ok || idx >= len(v.a) {
				return nil
			}
			v = &v.a[idx]
		default:
			return nil
		}
	}
	return v
}

// GetString 按路径获取字符串值（类型不匹配返回 ""）
func (v *Value) GetString(keys ...string) string {
	v = v.Get(keys...)
	if v == nil || v.t != TypeString {
		return ""
	}
	return string(v.s)
}

// GetFloat64 按路径获取浮点数值
func (v *Value) GetFloat64(keys ...string) float64 {
	return v.Get(keys...).Number()
}

// GetInt 按路径获取整数值（浮点截断）
func (v *Value) GetInt(keys ...string) int {
	return int(v.Get(keys...).Number())
}

// GetInt64 按路径获取 64 位整数值（浮点截断）
func (v *Value) GetInt64(keys ...string) int64 {
	return int64(v.Get(keys...).Number())
}

// GetBool 按路径获取布尔值
func (v *Value) GetBool(keys ...string) bool {
	return v.Get(keys...).Bool()
}

// parseIdx 解析非负整数下标（含溢出保护）
func parseIdx(s string) (int, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n < 0 {
			return 0, false // 溢出保护（32 位平台）
		}
	}
	return n, true
}
