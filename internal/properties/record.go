package properties

import (
	"bufio"
	"fmt"
	"strings"
)

// Keys of a library.properties record in encoding order.
const (
	KeyName          = "name"
	KeyVersion       = "version"
	KeyAuthor        = "author"
	KeyMaintainer    = "maintainer"
	KeySentence      = "sentence"
	KeyParagraph     = "paragraph"
	KeyCategory      = "category"
	KeyURL           = "url"
	KeyArchitectures = "architectures"
)

const (
	keyValueSeparatorConstant        = "="
	lineTemplateConstant             = "%s=%s\n"
	commentPrefixConstant            = "#"
	missingSeparatorTemplateConstant = "line %d: expected key=value"
	emptyKeyTemplateConstant         = "line %d: empty key"
	duplicateKeyTemplateConstant     = "line %d: duplicate key %q"
	readRecordErrorTemplateConstant  = "read properties: %w"
)

var recordKeyOrder = []string{
	KeyName,
	KeyVersion,
	KeyAuthor,
	KeyMaintainer,
	KeySentence,
	KeyParagraph,
	KeyCategory,
	KeyURL,
	KeyArchitectures,
}

// RecordKeys returns the fixed key order of a record.
func RecordKeys() []string {
	keys := make([]string, len(recordKeyOrder))
	copy(keys, recordKeyOrder)
	return keys
}

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value string
}

// Record is an immutable, ordered library.properties document.
// The fixed keys always come first in RecordKeys order; parsed extra keys follow in file order.
type Record struct {
	values    map[string]string
	extraKeys []string
}

// NewRecord builds a record from values keyed by the fixed keys. Other keys are ignored.
func NewRecord(values map[string]string) Record {
	record := Record{values: make(map[string]string, len(values))}
	for _, key := range recordKeyOrder {
		record.values[key] = values[key]
	}
	return record
}

// Value returns the value stored for key.
func (record Record) Value(key string) string {
	return record.values[key]
}

// Fields lists the record fields in encoding order.
func (record Record) Fields() []Field {
	fields := make([]Field, 0, len(recordKeyOrder)+len(record.extraKeys))
	for _, key := range recordKeyOrder {
		fields = append(fields, Field{Key: key, Value: record.values[key]})
	}
	for _, key := range record.extraKeys {
		fields = append(fields, Field{Key: key, Value: record.values[key]})
	}
	return fields
}

// Encode renders one key=value line per field.
func (record Record) Encode() string {
	var builder strings.Builder
	for _, field := range record.Fields() {
		fmt.Fprintf(&builder, lineTemplateConstant, field.Key, field.Value)
	}
	return builder.String()
}

// ParseRecord reads a library.properties document. Blank lines and # comments are ignored.
func ParseRecord(content string) (Record, error) {
	record := Record{values: make(map[string]string, len(recordKeyOrder))}
	for _, key := range recordKeyOrder {
		record.values[key] = ""
	}
	seen := make(map[string]struct{}, len(recordKeyOrder))

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}

		key, value, found := strings.Cut(line, keyValueSeparatorConstant)
		if !found {
			return Record{}, fmt.Errorf(missingSeparatorTemplateConstant, lineNumber)
		}
		key = strings.TrimSpace(key)
		if len(key) == 0 {
			return Record{}, fmt.Errorf(emptyKeyTemplateConstant, lineNumber)
		}
		if _, duplicate := seen[key]; duplicate {
			return Record{}, fmt.Errorf(duplicateKeyTemplateConstant, lineNumber, key)
		}
		seen[key] = struct{}{}

		if _, fixed := record.values[key]; !fixed {
			record.extraKeys = append(record.extraKeys, key)
		}
		record.values[key] = value
	}
	if scanError := scanner.Err(); scanError != nil {
		return Record{}, fmt.Errorf(readRecordErrorTemplateConstant, scanError)
	}
	return record, nil
}
