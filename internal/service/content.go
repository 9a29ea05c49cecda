package service

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML()),
	)
	htmlSanitizer  = bluemonday.UGCPolicy()
	plainSanitizer = bluemonday.StrictPolicy()
)

// sanitizePlain strips all markup from user supplied text.
func sanitizePlain(input string) string {
	stripped := plainSanitizer.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// RenderMarkdown 将文章正文渲染为经过清洗的 HTML。渲染失败时退回转义后的原文。
func RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return html.EscapeString(content)
	}
	return string(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}
