// Package xmlenc serializes an ordered key/value tree to XML.
//
// Key conventions:
//   - a key starting with "@" becomes an attribute of the enclosing element
//   - the key "#text" becomes the character data of the enclosing element
//   - any other key becomes a child element, repeated once per item when the
//     value is a slice
//
// The encoder knows nothing about ISO 20022; element order is the order of the
// entries in each Map.
package xmlenc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/pain001/internal/validation"
)

const (
	// AttrPrefix marks a key as an attribute.
	AttrPrefix = "@"
	// TextKey marks a value as the element's character data.
	TextKey = "#text"
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered mapping. Entries with a nil value are skipped on encoding.
type Map []Entry

// Add appends an entry and returns the extended map.
func (m Map) Add(key string, value any) Map {
	return append(m, Entry{Key: key, Value: value})
}

// AddString appends key only when value is not empty.
func (m Map) AddString(key, value string) Map {
	if value == "" {
		return m
	}
	return append(m, Entry{Key: key, Value: value})
}

// AddMap appends key only when value has entries.
func (m Map) AddMap(key string, value Map) Map {
	if len(value) == 0 {
		return m
	}
	return append(m, Entry{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Encoder writes Maps as XML documents.
type Encoder struct {
	w      io.Writer
	indent string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithIndent sets the per-level indentation. An empty string disables
// indentation entirely.
func WithIndent(indent string) Option {
	return func(e *Encoder) {
		e.indent = indent
	}
}

// NewEncoder returns an encoder writing to w, indenting with two spaces by default.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{w: w, indent: "  "}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes the XML declaration followed by root. root must hold exactly
// one element key.
func (e *Encoder) Encode(root Map) error {
	var elements []Entry
	for _, entry := range root {
		if entry.Value == nil {
			continue
		}
		if isAttr(entry.Key) || entry.Key == TextKey {
			return fmt.Errorf("root entry %q must be an element", entry.Key)
		}
		elements = append(elements, entry)
	}
	if len(elements) != 1 {
		return fmt.Errorf("document must have exactly one root element, got %d", len(elements))
	}

	if _, err := io.WriteString(e.w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML declaration: %w", err)
	}

	enc := xml.NewEncoder(e.w)
	if e.indent != "" {
		enc.Indent("", e.indent)
	}
	if err := encodeElement(enc, elements[0].Key, elements[0].Value); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to flush XML: %w", err)
	}
	return nil
}

// Marshal encodes root with the default options.
func Marshal(root Map, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAttr(key string) bool {
	return strings.HasPrefix(key, AttrPrefix)
}

func encodeElement(enc *xml.Encoder, name string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case Map:
		return encodeMap(enc, name, v)
	case []Map:
		for _, item := range v {
			if err := encodeMap(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, item := range v {
			if err := encodeText(enc, name, nil, item); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, item := range v {
			if err := encodeElement(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	default:
		text, err := scalar(v)
		if err != nil {
			return fmt.Errorf("element %s: %w", name, err)
		}
		return encodeText(enc, name, nil, text)
	}
}

func encodeMap(enc *xml.Encoder, name string, m Map) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	var children []Entry
	var text *string

	for _, entry := range m {
		if entry.Value == nil {
			continue
		}
		switch {
		case isAttr(entry.Key):
			s, err := scalar(entry.Value)
			if err == nil {
				err = checkText(s)
			}
			if err != nil {
				return fmt.Errorf("attribute %s of %s: %w", entry.Key, name, err)
			}
			start.Attr = append(start.Attr, xml.Attr{
				Name:  xml.Name{Local: strings.TrimPrefix(entry.Key, AttrPrefix)},
				Value: s,
			})
		case entry.Key == TextKey:
			s, err := scalar(entry.Value)
			if err != nil {
				return fmt.Errorf("text of %s: %w", name, err)
			}
			text = &s
		default:
			children = append(children, entry)
		}
	}

	if text != nil {
		if len(children) > 0 {
			return fmt.Errorf("element %s mixes text content with child elements", name)
		}
		return encodeText(enc, name, start.Attr, *text)
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	for _, child := range children {
		if err := encodeElement(enc, child.Key, child.Value); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func encodeText(enc *xml.Encoder, name string, attrs []xml.Attr, text string) error {
	if err := checkText(text); err != nil {
		return fmt.Errorf("element %s: %w", name, err)
	}
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return fmt.Errorf("failed to write text of %s: %w", name, err)
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// checkText rejects what encoding/xml would otherwise replace with U+FFFD.
func checkText(s string) error {
	if !validation.IsXMLText(s) {
		return fmt.Errorf("text %q contains invalid UTF-8 or characters not allowed in XML", s)
	}
	return nil
}

func scalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}
