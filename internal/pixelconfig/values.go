package pixelconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Line kinds of the values document.
const (
	KindInput  = "input"
	KindOption = "opt"
)

// ContentTypeValues is the content type of the values document.
const ContentTypeValues = "text/plain"

// EncodeValues renders cfg as the pipe-delimited document the form script
// reads to populate its inputs:
//
//	devname|input|Lobby Pixels
//	pixel_color|opt|RGB|6
//	pixel_color|input|6
//
// Fields appear in page order. A select field lists its options before its
// input line. Line breaks in the device name are replaced by spaces so the
// line structure never depends on the configuration.
func EncodeValues(cfg PixelConfig) string {
	var b strings.Builder
	for _, f := range Fields.Fields() {
		for _, o := range f.Options {
			fmt.Fprintf(&b, "%s|%s|%s|%d\n", f.Name, KindOption, o.Label, o.Code)
		}
		value := f.Get(&cfg)
		if f.Kind == KindText {
			value = strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
		}
		fmt.Fprintf(&b, "%s|%s|%s\n", f.Name, KindInput, value)
	}
	return b.String()
}

// Values is a decoded values document.
type Values struct {
	Config  PixelConfig
	Options map[string][]Option
	Unknown []string // lines for fields this build does not know
}

// ParseValues decodes a values document. Unlike the form handler it is
// strict: a malformed line or value is an error.
func ParseValues(data []byte) (*Values, error) {
	v := &Values{Options: make(map[string][]Option)}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		name, rest, ok := strings.Cut(line, "|")
		if !ok {
			return nil, fmt.Errorf("line %d: missing separator: %q", lineNo, line)
		}
		kind, payload, ok := strings.Cut(rest, "|")
		if !ok {
			return nil, fmt.Errorf("line %d: missing value: %q", lineNo, line)
		}

		field, known := Fields.Lookup(name)
		if !known {
			v.Unknown = append(v.Unknown, line)
			continue
		}

		switch kind {
		case KindInput:
			if !field.Set(&v.Config, payload) && field.Kind != KindText {
				return nil, fmt.Errorf("line %d: invalid %s value for %s: %q", lineNo, field.Kind, name, payload)
			}
		case KindOption:
			sep := strings.LastIndex(payload, "|")
			if sep < 0 {
				return nil, fmt.Errorf("line %d: option without code: %q", lineNo, line)
			}
			code, err := strconv.Atoi(payload[sep+1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid option code: %w", lineNo, err)
			}
			v.Options[name] = append(v.Options[name], Option{Label: payload[:sep], Code: code})
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", lineNo, kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}

	return v, nil
}
