package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SubstituteContent rewrites a captured article request body with freshly
// generated text. Title lands in article.subject (and the trade section
// when present); content replaces the first text node of the first text
// component inside the editor document. Everything else in the body is
// carried over untouched so the replayed request keeps the capture's
// shape.
func SubstituteContent(raw, title, content string) (string, error) {
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return "", fmt.Errorf("parse request body: %w", err)
	}

	article, ok := body["article"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("parse request body: missing article object")
	}
	article["subject"] = title

	if trade, ok := body["personalTradeDirect"].(map[string]any); ok {
		trade["title"] = title
		trade["specification"] = content
	}

	if contentJSON, ok := article["contentJson"].(string); ok && contentJSON != "" {
		rewritten, err := rewriteDocument(contentJSON, content)
		if err != nil {
			return "", err
		}
		article["contentJson"] = rewritten
	}

	out, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request body: %w", err)
	}
	return string(out), nil
}

// rewriteDocument replaces the first text node of the first text component
// in an editor document and returns the document re-encoded. Documents
// without a text component come back unchanged.
func rewriteDocument(contentJSON, content string) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(contentJSON), &doc); err != nil {
		return "", fmt.Errorf("parse content document: %w", err)
	}

	document, _ := doc["document"].(map[string]any)
	if document == nil {
		return contentJSON, nil
	}
	components, _ := document["components"].([]any)
	for _, c := range components {
		component, ok := c.(map[string]any)
		if !ok || component["@ctype"] != "text" {
			continue
		}
		if !setFirstTextNode(component, content) {
			continue
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("encode content document: %w", err)
		}
		return string(out), nil
	}
	return contentJSON, nil
}

// setFirstTextNode walks component.value[0].value[0].value, the paragraph
// and node nesting the editor emits for text components.
func setFirstTextNode(component map[string]any, content string) bool {
	paragraphs, _ := component["value"].([]any)
	if len(paragraphs) == 0 {
		return false
	}
	paragraph, _ := paragraphs[0].(map[string]any)
	if paragraph == nil {
		return false
	}
	nodes, _ := paragraph["value"].([]any)
	if len(nodes) == 0 {
		return false
	}
	node, _ := nodes[0].(map[string]any)
	if node == nil {
		return false
	}
	node["value"] = content
	return true
}

// TitleMaxLen caps a generated post title.
const TitleMaxLen = 50

// FallbackTitle is used when generated content has no usable first line.
const FallbackTitle = "New Post"

// TitleFrom derives a post title: the first non-empty line of the content,
// trimmed to TitleMaxLen runes.
func TitleFrom(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > TitleMaxLen {
			return string(runes[:TitleMaxLen])
		}
		return line
	}
	return FallbackTitle
}
