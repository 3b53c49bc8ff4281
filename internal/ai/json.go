package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ExtractJSON strips the markdown fences models like to wrap their answers
// in and cuts the text down to the outermost JSON object.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		// Language tag, e.g. ```json.
		if nl := strings.IndexByte(raw, '\n'); nl >= 0 && !strings.ContainsAny(raw[:nl], "{[") {
			raw = raw[nl+1:]
		} else {
			raw = strings.TrimPrefix(raw, "json")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

// DecodeObject parses a possibly fenced model answer into a generic object.
func DecodeObject(raw string) (map[string]any, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("parse model response: %w", ErrEmptyResponse)
	}

	return data, nil
}

// Decode parses a model answer into out, matching keys by their json tags
// regardless of case and underscores and coercing loosely typed values
// ("85" into 85, a lone string into a one element list).
func Decode(raw string, out any) error {
	data, err := DecodeObject(raw)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		MatchName:        matchName,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	return nil
}

func matchName(mapKey, fieldName string) bool {
	return foldKey(mapKey) == foldKey(fieldName)
}

func foldKey(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(s)
}
