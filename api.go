// Package canopy 统一API入口
//
// canopy 是一个所有权树 JSON 文档编解码库: 解析 UTF-8 文本得到一棵
// 深度独占所有权的值树，序列化值树得到紧凑 JSON 文本，数字与字符串
// 保证逐位往返。核心引擎见 dom 包，并发批量前端见 batch 包。
//
// 用法:
//
//	v, err := canopy.Parse(`{"name":"yak","tags":[1,2,3]}`)
//	if err != nil {
//	    code := canopy.CodeOf(err) // 确定的语法状态码
//	}
//	defer v.Free()
//	out, _ := canopy.Stringify(v)
package canopy

import "github.com/uniyakcom/canopy/dom"

// Value 导出值树节点类型
type Value = dom.Value

// Member 导出对象成员类型
type Member = dom.Member

// Type 导出值类型
type Type = dom.Type

// Code 导出解析状态码
type Code = dom.Code

// SyntaxError 导出解析错误类型
type SyntaxError = dom.SyntaxError

// Parser 导出解析器
type Parser = dom.Parser

// Writer 导出序列化器
type Writer = dom.Writer

// 值类型常量
const (
	TypeNull   = dom.TypeNull
	TypeTrue   = dom.TypeTrue
	TypeFalse  = dom.TypeFalse
	TypeNumber = dom.TypeNumber
	TypeString = dom.TypeString
	TypeArray  = dom.TypeArray
	TypeObject = dom.TypeObject
)

// 解析状态码
const (
	CodeOK                       = dom.CodeOK
	CodeExpectValue              = dom.CodeExpectValue
	CodeInvalidValue             = dom.CodeInvalidValue
	CodeRootNotSingular          = dom.CodeRootNotSingular
	CodeNumberTooBig             = dom.CodeNumberTooBig
	CodeMissQuotationMark        = dom.CodeMissQuotationMark
	CodeInvalidStringEscape      = dom.CodeInvalidStringEscape
	CodeInvalidStringChar        = dom.CodeInvalidStringChar
	CodeInvalidUnicodeHex        = dom.CodeInvalidUnicodeHex
	CodeInvalidUnicodeSurrogate  = dom.CodeInvalidUnicodeSurrogate
	CodeMissCommaOrSquareBracket = dom.CodeMissCommaOrSquareBracket
	CodeMissKey                  = dom.CodeMissKey
	CodeMissColon                = dom.CodeMissColon
	CodeMissCommaOrCurlyBracket  = dom.CodeMissCommaOrCurlyBracket
	CodeTooDeep                  = dom.CodeTooDeep
)

// MaxDepth 导出嵌套深度上限
const MaxDepth = dom.MaxDepth

// NotFound 导出按键查找未命中下标
const NotFound = dom.NotFound

// Parse 解析 JSON 文本，返回根值（调用方拥有，用完调用 Free）
func Parse(s string) (*Value, error) { return dom.Parse(s) }

// ParseBytes 解析 JSON 字节切片
func ParseBytes(b []byte) (*Value, error) { return dom.ParseBytes(b) }

// Stringify 将值树渲染为紧凑 JSON 文本（调用方拥有返回的字节）
func Stringify(v *Value) ([]byte, error) { return dom.Stringify(v) }

// Equal 深度结构相等
func Equal(a, b *Value) bool { return dom.Equal(a, b) }

// CodeOf 提取 err 携带的解析状态码
func CodeOf(err error) Code { return dom.CodeOf(err) }
