// Package telegram provides Telegram-specific utilities
package telegram

import "strings"

var markdownV2Replacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func EscapeMarkdownV2(text string) string {
	return markdownV2Replacer.Replace(text)
}

// Bold escapes text and wraps it in MarkdownV2 bold markers
func Bold(text string) string {
	return "*" + EscapeMarkdownV2(text) + "*"
}

// Bullet renders "- *label:* value" with both parts escaped
func Bullet(label, value string) string {
	return "\\- " + Bold(label+":") + " " + EscapeMarkdownV2(value)
}
