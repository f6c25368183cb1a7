// Package normalize 将数据库中类型不确定的 JSON/数组列转换为确定的结构。
//
// 同一列可能以三种形态出现：原生数组/对象、JSON 编码后的字符串、NULL。
// 这里的函数从不返回错误，解析失败一律回落到调用方给定的默认值。
package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"gorm.io/datatypes"
)

// EnsureArray 保证返回一个切片：
//   - 已是 []any 时原样返回；
//   - 空值返回 fallback；
//   - 字符串或原始 JSON 字节尝试解析，只有解析结果为数组时才返回；
//   - 其它切片/数组类型逐项转换为 []any。
func EnsureArray(value any, fallback []any) []any {
	if fallback == nil {
		fallback = []any{}
	}
	if arr, ok := value.([]any); ok {
		return arr
	}
	if isEmpty(value) {
		return fallback
	}

	switch v := value.(type) {
	case string:
		return arrayFromJSON([]byte(v), fallback, 0)
	case json.RawMessage:
		return arrayFromJSON(v, fallback, 0)
	case datatypes.JSON:
		return arrayFromJSON(v, fallback, 0)
	case []byte:
		return arrayFromJSON(v, fallback, 0)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return fallback
}

// EnsureStrings 在 EnsureArray 的基础上把元素统一为字符串，保持原有顺序。
// 结果永远非 nil，便于序列化为 []。
func EnsureStrings(value any) []string {
	items := EnsureArray(value, nil)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// SafeJSONParse 将值解析为普通的 JSON 结构（map/[]any/标量）。
// 字符串与 JSON 字节会被解码；其它值经过一次序列化再反序列化，得到可安全输出的副本。
// 空值或解析失败时返回 fallback。
func SafeJSONParse(value any, fallback any) any {
	if isEmpty(value) {
		return fallback
	}

	switch v := value.(type) {
	case string:
		return parseJSON([]byte(v), fallback, 0)
	case json.RawMessage:
		return parseJSON(v, fallback, 0)
	case datatypes.JSON:
		return parseJSON(v, fallback, 0)
	case []byte:
		return parseJSON(v, fallback, 0)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Default().Debug("normalize: marshal value failed", slog.Any("error", err))
		return fallback
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback
	}
	return out
}

// Canonical 返回列值规范化后的 JSON 编码，供修复历史数据使用。
// asArray 为 true 时按数组规范化，否则按对象规范化；无法规范化的对象列返回 nil（即 NULL）。
func Canonical(value datatypes.JSON, asArray bool) datatypes.JSON {
	var normalized any
	if asArray {
		normalized = EnsureArray(value, nil)
	} else {
		normalized = SafeJSONParse(value, nil)
		if normalized == nil {
			return nil
		}
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// 列值可能被重复编码（JSON 字符串里再嵌一层 JSON），最多解开这么多层。
const maxEncodingDepth = 2

func arrayFromJSON(raw []byte, fallback []any, depth int) []any {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fallback
	}
	switch v := decoded.(type) {
	case []any:
		return v
	case string:
		if depth < maxEncodingDepth && strings.TrimSpace(v) != "" {
			return arrayFromJSON([]byte(v), fallback, depth+1)
		}
	}
	return fallback
}

func parseJSON(raw []byte, fallback any, depth int) any {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fallback
	}
	if decoded == nil {
		return fallback
	}
	if s, ok := decoded.(string); ok && depth < maxEncodingDepth {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return parseJSON([]byte(trimmed), fallback, depth+1)
		}
	}
	return decoded
}

// isEmpty 对应“假值”：nil、空字符串、空字节、字面量 null。
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case json.RawMessage:
		return isEmptyJSON(v)
	case datatypes.JSON:
		return isEmptyJSON(v)
	case []byte:
		return isEmptyJSON(v)
	case bool:
		return !v
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isEmptyJSON(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
