package deckcache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"ai-flashcard-be/internal/entity"
)

const (
	DefaultFiltersKey = "default"
	fingerprintWindow = 1000
)

// ContentHash fingerprints a document from its name, length and the first
// and last 1000 characters. Filters, when given, are folded in so two filter
// sets over the same document never share a hash.
func ContentHash(text, fileName string, filters *entity.Filters) string {
	runes := []rune(text)
	head := runes
	if len(head) > fingerprintWindow {
		head = runes[:fingerprintWindow]
	}
	tail := runes
	if len(tail) > fingerprintWindow {
		tail = runes[len(runes)-fingerprintWindow:]
	}

	content := fmt.Sprintf("%s:%d:%s:%s", fileName, len(runes), string(head), string(tail))
	if filters != nil {
		content += ":" + FiltersKey(filters)
	}
	return hash36(content)
}

// hash36 runs the 32-bit h = (h<<5) - h + c hash and renders |h| in base 36.
func hash36(s string) string {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}

// FiltersKey is the canonical JSON of filters with keys sorted at every
// level, or "default" when filters are nil.
func FiltersKey(filters *entity.Filters) string {
	if filters == nil {
		return DefaultFiltersKey
	}

	raw, err := json.Marshal(filters)
	if err != nil {
		return DefaultFiltersKey
	}
	// Round-tripping through a generic map sorts object keys.
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}

// EntryKey composes the cache key userId:contentHash:filtersKey.
func EntryKey(userId, contentHash, filtersKey string) string {
	return userId + ":" + contentHash + ":" + filtersKey
}
