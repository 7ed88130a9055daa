// Package dom 所有权树 JSON 编解码引擎
//
// 设计原则（与 yak 事件总线的 json 包同源，面向 DOM 构建场景）:
//   - 所有权树: 解析产出一棵深度独占所有权的值树，字符串/子值全部拷贝为
//     拥有的字节，与原始输入解耦（对比零拷贝懒解析，DOM 适合多次访问与修改）
//   - 暂存栈: 解析与序列化共用同一套可增长 LIFO 暂存区（见 arena.go），
//     字符串内容、数组元素、对象成员先暂存后紧缩拷贝
//   - 严格语法: 完整 RFC 8259 数字/字符串/结构校验，错误带状态码与偏移量
//   - 池化复用: Parser/Writer 通过 sync.Pool 复用，并发安全
//
// 用法:
//
//	v, err := dom.Parse(`{"name":"yak","tags":[1,2,3]}`)
//	if err != nil { ... }
//	defer v.Free()
//	name := v.GetString("name")   // "yak"
//	out, _ := dom.Stringify(v)    // 紧凑 JSON 文本
package dom

import (
	"errors"
	"fmt"
)

// MaxDepth JSON 嵌套最大深度（防栈溢出攻击）
const MaxDepth = 512

// Code 解析状态码
//
// 除 CodeOK 外，每个状态码对应一类确定的语法违规；
// CodeTooDeep 是嵌套深度上限的专用状态码。
type Code uint8

const (
	CodeOK                       Code = iota // 解析成功
	CodeExpectValue                          // 输入为空或只含空白
	CodeInvalidValue                         // 非法字面量/数字
	CodeRootNotSingular                      // 根值之后还有非空白内容
	CodeNumberTooBig                         // 数字溢出 float64
	CodeMissQuotationMark                    // 字符串缺少闭合引号
	CodeInvalidStringEscape                  // 非法转义字符
	CodeInvalidStringChar                    // 字符串中出现裸控制字符
	CodeInvalidUnicodeHex                    // \u 后非 4 位十六进制
	CodeInvalidUnicodeSurrogate              // 非法 surrogate pair
	CodeMissCommaOrSquareBracket             // 数组缺少 ',' 或 ']'
	CodeMissKey                              // 对象缺少键
	CodeMissColon                            // 对象缺少 ':'
	CodeMissCommaOrCurlyBracket              // 对象缺少 ',' 或 '}'
	CodeTooDeep                              // 嵌套深度超过 MaxDepth
)

// String 返回状态码名称
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeExpectValue:
		return "expect value"
	case CodeInvalidValue:
		return "invalid value"
	case CodeRootNotSingular:
		return "root not singular"
	case CodeNumberTooBig:
		return "number too big"
	case CodeMissQuotationMark:
		return "miss quotation mark"
	case CodeInvalidStringEscape:
		return "invalid string escape"
	case CodeInvalidStringChar:
		return "invalid string char"
	case CodeInvalidUnicodeHex:
		return "invalid unicode hex"
	case CodeInvalidUnicodeSurrogate:
		return "invalid unicode surrogate"
	case CodeMissCommaOrSquareBracket:
		return "miss comma or square bracket"
	case CodeMissKey:
		return "miss key"
	case CodeMissColon:
		return "miss colon"
	case CodeMissCommaOrCurlyBracket:
		return "miss comma or curly bracket"
	case CodeTooDeep:
		return "too deep"
	default:
		return "unknown"
	}
}

// SyntaxError 解析失败详情（状态码 + 字节偏移）
type SyntaxError struct {
	Code   Code
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("dom: %s at offset %d", e.Code, e.Offset)
}

// CodeOf 提取 err 携带的状态码
//
// nil 返回 CodeOK；非 SyntaxError 的错误同样返回 CodeOK（不是解析失败）。
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeOK
}
