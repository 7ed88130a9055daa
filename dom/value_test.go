package dom_test

import (
	"testing"

	"github.com/uniyakcom/canopy/dom"
)

// TestValueNilSafety nil 值的全部访问器安全且读作 null
func TestValueNilSafety(t *testing.T) {
	var v *dom.Value
	if v.Type() != dom.TypeNull {
		t.Errorf("nil Type = %v, want null", v.Type())
	}
	if !v.IsNull() {
		t.Error("nil IsNull = false, want true")
	}
	if v.Bool() || v.Number() != 0 || v.StringBytes() != nil || v.Len() != 0 {
		t.Error("nil accessors should return zero values")
	}
	if v.Elem(0) != nil || v.MemberAt(0) != nil || v.Get("k") != nil {
		t.Error("nil navigation should return nil")
	}
	v.Free() // 空操作
	v.ArrayEach(func(int, *dom.Value) bool { t.Error("nil ArrayEach fired"); return true })
	v.ObjectEach(func([]byte, *dom.Value) bool { t.Error("nil ObjectEach fired"); return true })
}

// TestValueFreeRecursive Free 递归清空子树并重置标签
func TestValueFreeRecursive(t *testing.T) {
	v := mustParse(t, `{"a":[1,{"b":"c"}],"d":"e"}`)
	v.Free()
	if v.Type() != dom.TypeNull {
		t.Errorf("after Free type = %v, want null", v.Type())
	}
	if v.Len() != 0 {
		t.Errorf("after Free len = %d, want 0", v.Len())
	}
	// 幂等: 二次 Free 是空操作
	v.Free()
	if v.Type() != dom.TypeNull {
		t.Error("double Free should stay null")
	}
}

// TestValueSetString 设置字符串前先释放旧内容
func TestValueSetString(t *testing.T) {
	v := mustParse(t, `{"a":[1,2,3]}`)
	v.SetString([]byte("hello"))
	if v.Type() != dom.TypeString {
		t.Fatalf("type = %v, want string", v.Type())
	}
	if got := string(v.StringBytes()); got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}

	// 拥有拷贝: 改写源缓冲不影响值
	src := []byte("abc")
	v.SetString(src)
	src[0] = 'x'
	if got := string(v.StringBytes()); got != "abc" {
		t.Errorf("content = %q, want %q (owned copy)", got, "abc")
	}

	// 含内嵌 NUL
	v.SetString([]byte{'a', 0, 'b'})
	if got := v.StringBytes(); len(got) != 3 || got[1] != 0 {
		t.Errorf("NUL content = %v, want [a 0 b]", got)
	}
	v.Free()
}

// TestValueIteration 遍历保持插入顺序，提前停止生效
func TestValueIteration(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"a":3}`)
	defer v.Free()

	var keys []string
	v.ObjectEach(func(key []byte, val *dom.Value) bool {
		keys = append(keys, string(key))
		return true
	})
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "a" {
		t.Errorf("keys = %v, want [a b a]", keys)
	}

	arr := mustParse(t, `[10,20,30]`)
	defer arr.Free()
	var seen []float64
	arr.ArrayEach(func(i int, elem *dom.Value) bool {
		seen = append(seen, elem.Number())
		return len(seen) < 2 // 提前停止
	})
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 20 {
		t.Errorf("seen = %v, want [10 20]", seen)
	}
}

// TestValueTypeString 类型名称
func TestValueTypeString(t *testing.T) {
	tests := []struct {
		t    dom.Type
		want string
	}{
		{dom.TypeNull, "null"},
		{dom.TypeTrue, "true"},
		{dom.TypeFalse, "false"},
		{dom.TypeNumber, "number"},
		{dom.TypeString, "string"},
		{dom.TypeArray, "array"},
		{dom.TypeObject, "object"},
		{dom.Type(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}
