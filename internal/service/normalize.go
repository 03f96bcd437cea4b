package service

import (
	"strings"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
)

// ExtractQuery finds the user's question in a decoded JSON body.
//
// Shapes are tried in this order and the first non-blank candidate wins:
//  1. the body itself is a string
//  2. an "input" field holding a string
//  3. a "message" field holding a string
//  4. a "messages" array: the last entry with role "user" and non-blank content
//
// Candidates are trimmed; whitespace-only values count as absent. A false result
// means no message was found, which is a normal outcome rather than an error.
func ExtractQuery(body interface{}) (domain.Query, bool) {
	if s, ok := body.(string); ok {
		return queryFrom(s)
	}

	obj, ok := body.(map[string]interface{})
	if !ok {
		return domain.Query{}, false
	}

	for _, field := range []string{"input", "message"} {
		if s, ok := obj[field].(string); ok {
			if q, ok := queryFrom(s); ok {
				return q, true
			}
		}
	}

	messages, ok := obj["messages"].([]interface{})
	if !ok {
		return domain.Query{}, false
	}
	for i := len(messages) - 1; i >= 0; i-- {
		msg, ok := messages[i].(map[string]interface{})
		if !ok || msg["role"] != "user" {
			continue
		}
		if q, ok := queryFrom(messageText(msg["content"])); ok {
			return q, true
		}
	}
	return domain.Query{}, false
}

// messageText flattens message content. OpenAI clients send either a string or
// a list of parts like {"type":"text","text":"..."}; text parts are joined with a space.
func messageText(content interface{}) string {
	switch c := content.(type) {
	case string:
		return c
	case []interface{}:
		var parts []string
		for _, p := range c {
			part, ok := p.(map[string]interface{})
			if !ok || part["type"] != "text" {
				continue
			}
			if text, ok := part["text"].(string); ok && strings.TrimSpace(text) != "" {
				parts = append(parts, strings.TrimSpace(text))
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func queryFrom(s string) (domain.Query, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Query{}, false
	}
	return domain.Query{Text: s}, true
}
