package jsonx

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var _jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	Marshal       = _jsonx.Marshal
	Unmarshal     = _jsonx.Unmarshal
	MarshalIndent = _jsonx.MarshalIndent
	NewEncoder    = _jsonx.NewEncoder
	NewDecoder    = _jsonx.NewDecoder
)

func init() {
	// 64-bit integers are written as strings so that javascript clients don't lose precision.
	jsoniter.RegisterExtension(newIntegerExtension(reflect.Int64, reflect.Uint64))
	// snake_case -> camelCase
	jsoniter.RegisterExtension(&camelCaseExtension{})
}
