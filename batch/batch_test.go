package batch_test

import (
	"strings"
	"testing"
	"time"

	"github.com/uniyakcom/canopy/batch"
	"github.com/uniyakcom/canopy/dom"
)

// TestParseAllMixed 批量解析: 单篇失败不影响其他文档
func TestParseAllMixed(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	docs := []string{
		`{"ok":1}`,
		`[1,2,3]`,
		`{"bad":`,
		`"text"`,
		`nul`,
	}
	results := p.ParseAll(docs)
	if len(results) != len(docs) {
		t.Fatalf("results = %d, want %d", len(results), len(docs))
	}

	if results[0].Err != nil || results[0].Value.GetInt("ok") != 1 {
		t.Errorf("doc 0: err = %v, ok = %d", results[0].Err, results[0].Value.GetInt("ok"))
	}
	if results[1].Err != nil || results[1].Value.Len() != 3 {
		t.Errorf("doc 1: err = %v, len = %d", results[1].Err, results[1].Value.Len())
	}
	if results[2].Err == nil {
		t.Error("doc 2 should fail")
	}
	if results[2].Value.Type() != dom.TypeNull {
		t.Error("failed doc value should read as null")
	}
	if results[3].Err != nil || string(results[3].Value.StringBytes()) != "text" {
		t.Errorf("doc 3: err = %v", results[3].Err)
	}
	if dom.CodeOf(results[4].Err) != dom.CodeInvalidValue {
		t.Errorf("doc 4 code = %v, want invalid value", dom.CodeOf(results[4].Err))
	}

	stats := p.Stats()
	if stats.Parsed != 3 || stats.Failed != 2 {
		t.Errorf("stats = %+v, want 3 parsed / 2 failed", stats)
	}

	for _, r := range results {
		r.Value.Free()
	}
}

// TestParseAllLarge 文档数远超 worker 数
func TestParseAllLarge(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	docs := make([]string, 200)
	for i := range docs {
		docs[i] = `[` + strings.Repeat(`{"x":1},`, 10) + `null]`
	}
	results := p.ParseAll(docs)
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("doc %d failed: %v", i, r.Err)
		}
		if r.Value.Len() != 11 {
			t.Errorf("doc %d len = %d, want 11", i, r.Value.Len())
		}
		r.Value.Free()
	}
}

// TestPoolDefaults nil 配置走默认值
func TestPoolDefaults(t *testing.T) {
	p, err := batch.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	results := p.ParseAll([]string{"true"})
	if results[0].Err != nil || !results[0].Value.Bool() {
		t.Errorf("default pool parse: %+v", results[0])
	}
}

// TestPoolCloseIdempotent Close 幂等，关闭后 Submit 记为失败
func TestPoolCloseIdempotent(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
	p.Close() // 幂等

	results := p.ParseAll([]string{"1"})
	if results[0].Err == nil {
		t.Error("submit after close should fail")
	}
}

// TestPoolDrain 优雅关闭
func TestPoolDrain(t *testing.T) {
	p, err := batch.New(&batch.Config{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	_ = p.ParseAll([]string{`{"a":1}`, `[1]`})
	if err := p.Drain(time.Second); err != nil {
		t.Errorf("Drain failed: %v", err)
	}
	if err := p.Drain(time.Second); err != nil {
		t.Errorf("second Drain should be no-op, got %v", err)
	}
}

// TestValidateAll 快速失败校验
func TestValidateAll(t *testing.T) {
	if err := batch.ValidateAll([]string{`{"a":1}`, `[true]`, `"s"`, `0.5`}); err != nil {
		t.Errorf("all valid, got %v", err)
	}

	err := batch.ValidateAll([]string{`{"a":1}`, `{"a":`, `[
	]`})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if dom.CodeOf(err) != dom.CodeExpectValue {
		t.Errorf("code = %v, want expect value", dom.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "document 1") {
		t.Errorf("error should name the document: %v", err)
	}
}
