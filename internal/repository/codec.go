package repository

import (
	"encoding/json"
	"strings"

	"github.com/portapro/portapro-api/internal/model"
)

// Projects store string lists as comma-separated text and media as a JSON
// column, mirroring how the API exposes them.

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func encodeMedia(items []model.MediaItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMedia(s string) ([]model.MediaItem, error) {
	if s == "" {
		return nil, nil
	}
	var items []model.MediaItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	return items, nil
}
