// Package bitable is the client for the Feishu Bitable remote table: typed
// records, the explicit record cache, long-text chunking, and the
// insert/merge/replace reconciliation used to keep one source URL mapped to
// exactly one record or one contiguous chunk group.
package bitable

import (
	"strings"
	"time"
)

// Remote field names. The table schema lives in Feishu; these constants are
// the single place the wire names appear.
const (
	FieldSourceLink = "Source Link"
	FieldPlatform   = "Platform"
	FieldTitle      = "Title"
	FieldAuthor     = "Author"
	FieldPublished  = "Published"
	FieldUploaded   = "Uploaded"
	FieldContent    = "Full Content"
	FieldSummary    = "Summary"
	FieldQuotes     = "Quotes"
	FieldCategory   = "Category"
	FieldCover      = "Cover"
)

// Record is one row of the remote table: either a whole content item or one
// chunk of an oversized item. Fields keeps the raw wire map for rows read
// back from the API so merges can see values we do not model.
type Record struct {
	ID          string // record_id, empty until created
	CreatedTime int64  // ms epoch, set by the API

	SourceLink string
	Platform   string
	Title      string
	Author     string
	Published  time.Time
	Uploaded   time.Time
	Content    string
	Summary    string
	Quotes     string
	Category   string
	CoverURL   string

	Fields map[string]any
}

// ToFields converts a record to the wire map, omitting blank fields.
// Timestamps go out as millisecond epochs.
func (r Record) ToFields() map[string]any {
	fields := make(map[string]any)
	put := func(name, value string) {
		if value != "" {
			fields[name] = value
		}
	}
	put(FieldSourceLink, r.SourceLink)
	put(FieldPlatform, r.Platform)
	put(FieldTitle, r.Title)
	put(FieldAuthor, r.Author)
	put(FieldContent, r.Content)
	put(FieldSummary, r.Summary)
	put(FieldQuotes, r.Quotes)
	put(FieldCategory, r.Category)
	put(FieldCover, r.CoverURL)
	if !r.Published.IsZero() {
		fields[FieldPublished] = r.Published.UnixMilli()
	}
	if !r.Uploaded.IsZero() {
		fields[FieldUploaded] = r.Uploaded.UnixMilli()
	}
	return fields
}

// recordFromWire builds a typed Record from one API row.
func recordFromWire(id string, createdTime int64, fields map[string]any) Record {
	return Record{
		ID:          id,
		CreatedTime: createdTime,
		SourceLink:  wireString(fields[FieldSourceLink]),
		Platform:    wireString(fields[FieldPlatform]),
		Title:       wireString(fields[FieldTitle]),
		Author:      wireString(fields[FieldAuthor]),
		Published:   wireTime(fields[FieldPublished]),
		Uploaded:    wireTime(fields[FieldUploaded]),
		Content:     wireString(fields[FieldContent]),
		Summary:     wireString(fields[FieldSummary]),
		Quotes:      wireString(fields[FieldQuotes]),
		Category:    wireString(fields[FieldCategory]),
		CoverURL:    wireCover(fields[FieldCover]),
		Fields:      fields,
	}
}

// wireString flattens a Bitable text value. Text fields arrive either as a
// plain string or as a rich-text segment array of {"text": ...} maps.
func wireString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		var sb strings.Builder
		for _, seg := range val {
			switch s := seg.(type) {
			case string:
				sb.WriteString(s)
			case map[string]any:
				if text, ok := s["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	default:
		return ""
	}
}

// wireTime converts a millisecond-epoch field value. JSON numbers decode as
// float64.
func wireTime(v any) time.Time {
	var ms int64
	switch val := v.(type) {
	case float64:
		ms = int64(val)
	case int64:
		ms = val
	}
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// wireCover handles the cover field, which may be a URL string or an
// attachment array with file tokens.
func wireCover(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) == 0 {
			return ""
		}
		if m, ok := val[0].(map[string]any); ok {
			if token, ok := m["file_token"].(string); ok && token != "" {
				return "https://open.feishu.cn/open-apis/drive/v1/preview/" + token + "?format=jpg"
			}
			if u, ok := m["url"].(string); ok {
				return u
			}
		}
		if s, ok := val[0].(string); ok {
			return s
		}
	}
	return ""
}

// wireBlank reports whether a wire value counts as blank for merge purposes.
func wireBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0 || strings.TrimSpace(wireString(val)) == ""
	default:
		return false
	}
}
