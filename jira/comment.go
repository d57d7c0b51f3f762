package jira

import (
	"encoding/json"
	"strings"
)

// CommentNode is one node of the Atlassian rich-text document tree that Jira
// returns for worklog comments.
type CommentNode struct {
	Type     string        `json:"type"`
	Text     string        `json:"text"`
	Children []CommentNode `json:"content"`
}

// FlattenComment concatenates the text leaves of a comment tree depth-first,
// joined with single spaces.
func FlattenComment(node *CommentNode) string {
	if node == nil {
		return ""
	}
	var builder strings.Builder
	appendCommentNodes([]CommentNode{*node}, &builder)
	return strings.TrimSpace(builder.String())
}

func appendCommentNodes(nodes []CommentNode, builder *strings.Builder) {
	for _, node := range nodes {
		if text := strings.TrimSpace(node.Text); text != "" {
			if builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteString(text)
		}
		if len(node.Children) > 0 {
			appendCommentNodes(node.Children, builder)
		}
	}
}

func decodeJSON(body []byte, out any) error {
	return json.Unmarshal(body, out)
}
