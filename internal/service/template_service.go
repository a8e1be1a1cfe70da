// internal/service/template_service.go
package service

import (
	"sort"
	"strings"
)

// RenderTemplate replaces {key} placeholders with data values in a single
// pass, so placeholders inside values are left as typed. Empty values render
// as "<unknown>".
func RenderTemplate(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v := data[k]
		if strings.TrimSpace(v) == "" {
			v = "<unknown>"
		}
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
