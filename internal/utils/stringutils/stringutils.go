package stringutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// ToKebabCase converts a string from CamelCase or PascalCase to kebab-case.
// Example: "UserName" -> "user-name", "MinLength" -> "min-length"
func ToKebabCase(str string) string {
	return splitWords(str, "-")
}

// ToSnakeCase converts a string from CamelCase or PascalCase to snake_case.
// Example: "UserName" -> "user_name", "HTTPRequest" -> "http_request"
func ToSnakeCase(str string) string {
	return splitWords(str, "_")
}

func splitWords(str string, sep string) string {
	if str == "" {
		return ""
	}
	s := matchFirstCap.ReplaceAllString(str, "${1}"+sep+"${2}")
	s = matchAllCap.ReplaceAllString(s, "${1}"+sep+"${2}")
	return strings.ToLower(s)
}

// ToLowerCamel lowercases the leading word of a PascalCase identifier,
// keeping a leading acronym together.
// Example: "UserName" -> "userName", "ID" -> "id", "HTTPServer" -> "httpServer"
func ToLowerCamel(s string) string {
	runes := []rune(s)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return s
	case upper == len(runes):
		return strings.ToLower(s)
	case upper > 1:
		// the last upper rune starts the next word: "HTTPServer" -> "http" + "Server"
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ReceiverName returns the conventional one-letter receiver name for a type.
// Example: "User" -> "u", "httpClient" -> "h"
func ReceiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "recv"
	}
	return string(unicode.ToLower(r))
}
