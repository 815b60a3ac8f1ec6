package jsonx

import (
	"strings"
	"unicode"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

type camelCaseExtension struct {
	jsoniter.DummyExtension
}

func (e *camelCaseExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		tag := binding.Field.Tag().Get("json")
		if tag == "-" {
			continue
		}

		name := binding.Field.Name()
		if parts := strings.Split(tag, ","); parts[0] != "" {
			name = parts[0]
		}

		if strings.Contains(name, "_") || isFirstCharUpper(name) {
			camel := toLowerFirstCamel(name)
			binding.ToNames = []string{camel}
			// snake_case input is still accepted
			binding.FromNames = []string{camel, name}
		}
	}
}

func toLowerFirstCamel(s string) string {
	if s == "" {
		return s
	}
	if !strings.Contains(s, "_") {
		return strings.ToLower(s[:1]) + s[1:]
	}

	var sb strings.Builder
	for _, p := range strings.Split(s, "_") {
		if p == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(strings.ToLower(p[:1]) + p[1:])
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return sb.String()
}

func isFirstCharUpper(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
