// Package submit turns a finished application into one multipart request
// and drives it through the backend exactly once.
package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"recruitment-intake/internal/form"
)

// binaryFields are appended as file parts and skipped by the scalar pass.
var binaryFields = map[string]bool{
	"photo":          true,
	"resume":         true,
	"introVideo":     true,
	"introThumbnail": true,
}

// Encode renders the whole form as multipart/form-data. The encoding is
// total over the form schema: every JSON field gets a part. Attachments
// become file parts; nil values become empty strings; arrays and objects are
// JSON-encoded; scalars are stringified.
func Encode(f *form.Application) (body *bytes.Buffer, contentType string, err error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeAttachment(writer, "photo", f.Photo); err != nil {
		return nil, "", err
	}
	if err := writeAttachment(writer, "resume", f.Resume); err != nil {
		return nil, "", err
	}
	if err := writeAttachment(writer, "introVideo", f.IntroVideo); err != nil {
		return nil, "", err
	}
	if err := writeAttachment(writer, "introThumbnail", f.IntroThumbnail); err != nil {
		return nil, "", err
	}

	// Round-tripping through JSON makes the scalar pass total over the
	// schema: a field added to the form cannot be silently dropped here.
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal form: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, "", fmt.Errorf("failed to expand form: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if binaryFields[key] {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := writer.WriteField(key, stringify(fields[key])); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func writeAttachment(writer *multipart.Writer, field string, att *form.Attachment) error {
	if att == nil {
		return nil
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(att.FileName)))
	if att.ContentType != "" {
		header.Set("Content-Type", att.ContentType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", field, err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return fmt.Errorf("failed to write part %s: %w", field, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// stringify mirrors the backend's form contract: nil is an empty string,
// composites are JSON, scalars are their plain text forms.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
