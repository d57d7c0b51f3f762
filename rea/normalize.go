package rea

import (
	"bytes"
	"encoding/json"
	"strings"

	"jirahour/internal/apierr"
)

// The portal's response shapes are not stable across deployments: payloads
// arrive bare, wrapped in a {data, message, status} envelope, or as JSON
// serialized into a string field. Extraction attempts a strict typed decode
// first and falls back to a tolerant tree walk, first success wins.

// ExtractToken locates the session token in a login response. It fails only
// when no token-like value exists anywhere, since the session cannot proceed
// without one.
func ExtractToken(body []byte) (string, error) {
	root, err := parseTree(body)
	if err != nil {
		return "", &apierr.ParseError{What: "rea login response", Reason: "body is not valid JSON"}
	}

	if token, ok := tokenIn(root); ok {
		return token, nil
	}

	if data, ok := propertyValue(root, "data"); ok {
		if asString, isString := data.(string); isString {
			if parsed, ok := tryParseJSONString(asString); ok {
				if token, ok := tokenIn(parsed); ok {
					return token, nil
				}
			}
			// A bare string under data is the token itself.
			if trimmed := strings.TrimSpace(asString); trimmed != "" {
				return trimmed, nil
			}
		} else if token, ok := tokenIn(data); ok {
			return token, nil
		}
	}

	return "", &apierr.ParseError{What: "rea login response", Reason: "no access token found"}
}

func tokenIn(element any) (string, bool) {
	object, ok := element.(map[string]any)
	if !ok {
		return "", false
	}
	for name, value := range object {
		if !strings.EqualFold(name, "token") && !strings.EqualFold(name, "accessToken") {
			continue
		}
		if asString, ok := value.(string); ok && strings.TrimSpace(asString) != "" {
			return asString, true
		}
	}
	return "", false
}

type projectEnvelope struct {
	Data []projectPayload `json:"data"`
}

type projectPayload struct {
	ProjectID   FlexString `json:"projectId"`
	ID          FlexString `json:"id"`
	ProjectName FlexString `json:"projectName"`
	Name        FlexString `json:"name"`
	Title       FlexString `json:"title"`
	ProjectCode FlexString `json:"projectCode"`
	Code        FlexString `json:"code"`
	ShortName   FlexString `json:"shortName"`
	Key         FlexString `json:"key"`
	ProjectKey  FlexString `json:"projectKey"`
}

// ExtractProjects decodes a project-list response. A strict envelope decode is
// tried first; when it yields nothing the whole document is scanned for
// objects carrying a project signature. Later duplicates of an id are
// discarded in favor of the first occurrence.
func ExtractProjects(body []byte) ([]Project, error) {
	projects := make([]Project, 0, 8)
	seen := make(map[string]struct{}, 8)

	var envelope projectEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, payload := range envelope.Data {
			appendProject(&projects, seen, payload)
		}
		if len(projects) > 0 {
			return projects, nil
		}
	}

	root, err := parseTree(body)
	if err != nil {
		return nil, &apierr.ParseError{What: "rea project list", Reason: "body is not valid JSON"}
	}

	for _, item := range projectObjectsIn(dataElement(root)) {
		id := findString(item, "projectId", "id")
		if id == "" {
			continue
		}
		key := strings.ToLower(id)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}

		name := findString(item, "projectName", "name", "title")
		if name == "" {
			name = id
		}
		projects = append(projects, Project{
			ID:   id,
			Name: name,
			Code: findString(item, "projectCode", "code", "shortName", "key", "projectKey"),
		})
	}

	return projects, nil
}

func appendProject(projects *[]Project, seen map[string]struct{}, payload projectPayload) {
	id := firstNonEmpty(payload.ProjectID.String(), payload.ID.String())
	if id == "" {
		return
	}
	key := strings.ToLower(id)
	if _, exists := seen[key]; exists {
		return
	}
	seen[key] = struct{}{}

	name := firstNonEmpty(payload.ProjectName.String(), payload.Name.String(), payload.Title.String())
	if name == "" {
		name = id
	}
	*projects = append(*projects, Project{
		ID:   id,
		Name: name,
		Code: firstNonEmpty(payload.ProjectCode.String(), payload.Code.String(), payload.ShortName.String(), payload.Key.String(), payload.ProjectKey.String()),
	})
}

type timeEntryEnvelope struct {
	Data []TimeEntry `json:"data"`
}

// ExtractTimeEntries decodes a time-entry list response. Recognized shapes are
// a {data: [...]} envelope, a bare array, and a data field holding a JSON
// encoded array, object or string; a lone object counts as a one-element
// list. An empty result is not an error.
func ExtractTimeEntries(body []byte) ([]TimeEntry, error) {
	var envelope timeEntryEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data, nil
	}

	var direct []TimeEntry
	if err := json.Unmarshal(body, &direct); err == nil && len(direct) > 0 {
		return direct, nil
	}

	root, err := parseTree(body)
	if err != nil {
		return nil, &apierr.ParseError{What: "rea time entries", Reason: "body is not valid JSON"}
	}

	if entries := timeEntriesIn(dataElement(root)); len(entries) > 0 {
		return entries, nil
	}

	return []TimeEntry{}, nil
}

func timeEntriesIn(element any) []TimeEntry {
	switch value := element.(type) {
	case []any:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		var entries []TimeEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil
		}
		return entries
	case map[string]any:
		if !looksLikeTimeEntry(value) {
			return nil
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		var entry TimeEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil
		}
		return []TimeEntry{entry}
	case string:
		if parsed, ok := tryParseJSONString(value); ok {
			return timeEntriesIn(parsed)
		}
	}
	return nil
}

var timeEntryFieldNames = []string{
	"id", "userId", "projectId", "task", "startDate", "endDate", "effort", "comment",
}

// looksLikeTimeEntry keeps a stray envelope object from decoding into one
// all-defaults entry.
func looksLikeTimeEntry(object map[string]any) bool {
	for name := range object {
		for _, known := range timeEntryFieldNames {
			if strings.EqualFold(name, known) {
				return true
			}
		}
	}
	return false
}

// projectObjectsIn walks the document depth-first, unwrapping string values
// that themselves parse as JSON, and collects every object exhibiting a
// project signature.
func projectObjectsIn(element any) []map[string]any {
	found := make([]map[string]any, 0, 8)
	var walk func(any)
	walk = func(current any) {
		switch value := current.(type) {
		case map[string]any:
			if hasProjectSignature(value) {
				found = append(found, value)
			}
			for _, nested := range value {
				if asString, ok := nested.(string); ok {
					if parsed, ok := tryParseJSONString(asString); ok {
						walk(parsed)
						continue
					}
				}
				walk(nested)
			}
		case []any:
			for _, item := range value {
				if asString, ok := item.(string); ok {
					if parsed, ok := tryParseJSONString(asString); ok {
						walk(parsed)
						continue
					}
				}
				walk(item)
			}
		}
	}
	walk(element)
	return found
}

func hasProjectSignature(object map[string]any) bool {
	hasProjectID := false
	hasGenericID := false
	hasName := false

	for name, value := range object {
		switch {
		case strings.EqualFold(name, "projectId") || strings.EqualFold(name, "project_id"):
			hasProjectID = true
		case strings.EqualFold(name, "id"):
			switch value.(type) {
			case string, json.Number, float64:
				hasGenericID = true
			}
		case strings.EqualFold(name, "projectName") || strings.EqualFold(name, "name") || strings.EqualFold(name, "title"):
			hasName = true
		}
	}

	return hasProjectID || (hasGenericID && hasName)
}

// dataElement unwraps the payload-bearing part of a response: a root that is
// itself serialized JSON, or a data field that may hold serialized JSON.
func dataElement(root any) any {
	if asString, ok := root.(string); ok {
		if parsed, ok := tryParseJSONString(asString); ok {
			return parsed
		}
		return root
	}

	data, ok := propertyValue(root, "data")
	if !ok || data == nil {
		return root
	}
	if asString, ok := data.(string); ok {
		if parsed, ok := tryParseJSONString(asString); ok {
			return parsed
		}
	}
	return data
}

// findString searches an element for the first named property convertible to
// a non-empty string, checking direct properties before descending.
func findString(element any, names ...string) string {
	switch value := element.(type) {
	case map[string]any:
		for name, nested := range value {
			for _, target := range names {
				if strings.EqualFold(name, target) {
					if converted := toNonEmptyString(nested); converted != "" {
						return converted
					}
				}
			}
		}
		for _, nested := range value {
			if converted := findString(nested, names...); converted != "" {
				return converted
			}
		}
	case []any:
		for _, item := range value {
			if converted := findString(item, names...); converted != "" {
				return converted
			}
		}
	}
	return ""
}

func toNonEmptyString(value any) string {
	switch converted := value.(type) {
	case string:
		return strings.TrimSpace(converted)
	case json.Number:
		return converted.String()
	case bool:
		if converted {
			return "true"
		}
		return "false"
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func propertyValue(element any, name string) (any, bool) {
	object, ok := element.(map[string]any)
	if !ok {
		return nil, false
	}
	if value, ok := object[name]; ok {
		return value, true
	}
	for key, value := range object {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return nil, false
}

func parseTree(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, err
	}
	return root, nil
}

func tryParseJSONString(candidate string) (any, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false
	}
	// Only objects and arrays qualify; bare scalars would re-parse as
	// themselves forever.
	if candidate[0] != '{' && candidate[0] != '[' {
		return nil, false
	}
	root, err := parseTree([]byte(candidate))
	if err != nil {
		return nil, false
	}
	return root, true
}
