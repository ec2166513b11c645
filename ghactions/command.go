package ghactions

import (
	"sort"
	"strings"
)

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// EscapeData escapes the message part of a workflow command.
func EscapeData(s string) string {
	return dataEscaper.Replace(s)
}

// EscapeProperty escapes a property value of a workflow command.
func EscapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}

// Command formats a workflow command line without the trailing newline.
func Command(name string, properties map[string]string, message string) string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(name)

	if len(properties) > 0 {
		keys := make([]string, 0, len(properties))
		for k := range properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(EscapeProperty(properties[k]))
		}
	}

	b.WriteString("::")
	b.WriteString(EscapeData(message))
	return b.String()
}
