// Package binding 实现页脚等短文本使用的 ${...} 模板。
//
// 占位符语法：${path[:filter][|fallback]}
//
//	${head}               顶层键
//	${words[1]}           下标
//	${meta.recipe}        嵌套键
//	${text:upper}         过滤器：upper、lower、len
//	${words[3]|-}         路径不存在或值为空时使用 fallback
package binding

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrSyntax 表示模板无法编译。
var ErrSyntax = errors.New("binding: 模板语法错误")

// Template 是编译后的模板，可并发执行。
type Template struct {
	src   string
	parts []part
}

type part struct {
	literal string
	expr    *expr
}

type expr struct {
	raw         string
	path        []step
	filter      string
	fallback    string
	hasFallback bool
}

// step 是路径中的一段：键或下标。
type step struct {
	key   string
	index int
	isIdx bool
}

var filters = map[string]func(v any) string{
	"upper": func(v any) string { return cases.Upper(language.Und).String(fmt.Sprint(v)) },
	"lower": func(v any) string { return cases.Lower(language.Und).String(fmt.Sprint(v)) },
	"len": func(v any) string {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return strconv.Itoa(rv.Len())
		case reflect.String:
			return strconv.Itoa(len([]rune(rv.String())))
		}
		return "0"
	},
}

// Compile 解析模板。未闭合的 ${、空路径、非法下标和未知过滤器都会报错。
func Compile(src string) (*Template, error) {
	t := &Template{src: src}
	rest := src
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			t.addLiteral(rest)
			return t, nil
		}
		t.addLiteral(rest[:start])
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return nil, fmt.Errorf("%w: 未闭合的占位符 %q", ErrSyntax, rest[start:])
		}
		raw := rest[start : start+end+1]
		e, err := parseExpr(raw)
		if err != nil {
			return nil, err
		}
		t.parts = append(t.parts, part{expr: e})
		rest = rest[start+end+1:]
	}
}

// MustCompile 与 Compile 相同，出错时 panic。
func MustCompile(src string) *Template {
	t, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) addLiteral(s string) {
	if s != "" {
		t.parts = append(t.parts, part{literal: s})
	}
}

func parseExpr(raw string) (*expr, error) {
	body := raw[2 : len(raw)-1]
	e := &expr{raw: raw}
	body, e.fallback, e.hasFallback = strings.Cut(body, "|")
	e.fallback = strings.TrimSpace(e.fallback)
	body, e.filter, _ = strings.Cut(body, ":")
	e.filter = strings.TrimSpace(e.filter)
	if e.filter != "" {
		if _, ok := filters[e.filter]; !ok {
			return nil, fmt.Errorf("%w: 未知过滤器 %q", ErrSyntax, e.filter)
		}
	}
	path := strings.TrimSpace(body)
	if path == "" {
		return nil, fmt.Errorf("%w: 空路径 %q", ErrSyntax, raw)
	}
	steps, err := parsePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	e.path = steps
	return e, nil
}

// parsePath 把 a.b[0][1] 拆成键与下标。
func parsePath(path string) ([]step, error) {
	var steps []step
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name == "" && rest == "" {
			return nil, fmt.Errorf("路径 %q 含有空段", path)
		}
		if name != "" {
			steps = append(steps, step{key: name})
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("路径 %q 缺少 ]", path)
			}
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, fmt.Errorf("路径 %q 的下标 %q 不是整数", path, idx)
			}
			steps = append(steps, step{index: n, isIdx: true})
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return steps, nil
}

// String 返回模板源文本。
func (t *Template) String() string { return t.src }

// Execute 用 data 填充模板。找不到值且没有 fallback 的占位符原样保留。
func (t *Template) Execute(data any) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.expr == nil {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(p.expr.eval(data))
	}
	return b.String()
}

func (e *expr) eval(data any) string {
	val, ok := resolve(data, e.path)
	if ok {
		s := fmt.Sprint(val)
		if e.filter != "" {
			s = filters[e.filter](val)
		}
		if s != "" || !e.hasFallback {
			return s
		}
	}
	if e.hasFallback {
		return e.fallback
	}
	return e.raw
}

// Resolve 按 a.b[0] 形式的路径在 data 中查找值。
func Resolve(data any, path string) (any, bool) {
	steps, err := parsePath(strings.TrimSpace(path))
	if err != nil || len(steps) == 0 {
		return nil, false
	}
	return resolve(data, steps)
}

// resolve 支持字符串键的 map、结构体导出字段、切片与数组。
func resolve(data any, path []step) (any, bool) {
	cur := reflect.ValueOf(data)
	for _, s := range path {
		for cur.IsValid() && (cur.Kind() == reflect.Interface || cur.Kind() == reflect.Pointer) {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		if s.isIdx {
			if cur.Kind() != reflect.Slice && cur.Kind() != reflect.Array {
				return nil, false
			}
			if s.index < 0 || s.index >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(s.index)
			continue
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v := cur.MapIndex(reflect.ValueOf(s.key).Convert(cur.Type().Key()))
			if !v.IsValid() {
				return nil, false
			}
			cur = v
		case reflect.Struct:
			f := cur.FieldByName(s.key)
			if !f.IsValid() || !f.CanInterface() {
				return nil, false
			}
			cur = f
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

// Interpolate 编译并执行 text；模板无效时原样返回 text。
func Interpolate(text string, data any) string {
	t, err := Compile(text)
	if err != nil {
		return text
	}
	return t.Execute(data)
}
