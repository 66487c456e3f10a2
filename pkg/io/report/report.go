// Package report writes mined patterns in several formats.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/hokaccha/go-prettyjson"
	"github.com/vmihailenco/msgpack/v5"

	spmfio "github.com/hed1ad/gospmf/pkg/io"
	"github.com/hed1ad/gospmf/pkg/spmf"
)

// Format selects a writer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatJSONL    Format = "json-each-row"
	FormatMsgpack  Format = "msgpack"
	FormatTemplate Format = "template"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatJSONL, FormatMsgpack, FormatTemplate}

func (f *Format) String() string {
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(v string) error {
	for _, known := range Formats {
		if string(known) == v {
			*f = known
			return nil
		}
	}
	return fmt.Errorf("must be one of: text, json, json-each-row, msgpack, template")
}

func (f *Format) Type() string {
	return "Format"
}

// Options configures NewWriter.
type Options struct {
	// Color enables colored JSON.
	Color bool
	// Template is the text/template source for FormatTemplate, executed
	// once per pattern with sprig functions available.
	Template string
}

// NewWriter returns the writer for format.
func NewWriter(w io.Writer, format Format, opts Options) (spmfio.Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, opts.Color), nil
	case FormatJSONL:
		return NewJSONLinesWriter(w), nil
	case FormatMsgpack:
		return NewMsgpackWriter(w), nil
	case FormatTemplate:
		return NewTemplateWriter(w, opts.Template)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

type writeAller struct {
	write func(spmf.Pattern) error
}

func (w writeAller) WriteAll(patterns []spmf.Pattern) error {
	for _, p := range patterns {
		if err := w.write(p); err != nil {
			return err
		}
	}
	return nil
}

// TextWriter prints patterns in SPMF result-file form.
type TextWriter struct {
	writeAller
	bw *bufio.Writer
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(w io.Writer) *TextWriter {
	t := &TextWriter{bw: bufio.NewWriter(w)}
	t.writeAller = writeAller{write: t.Write}
	return t
}

func (t *TextWriter) Write(p spmf.Pattern) error {
	line := p.String()
	keys := make([]string, 0, len(p.Extras))
	for k := range p.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" #%s: %s", k, p.Extras[k])
	}
	_, err := t.bw.WriteString(line + "\n")
	return err
}

// Close flushes buffered output.
func (t *TextWriter) Close() error {
	return t.bw.Flush()
}

// JSONWriter collects patterns and prints one JSON array on Close.
type JSONWriter struct {
	writeAller
	w        io.Writer
	color    bool
	patterns []spmf.Pattern
}

// NewJSONWriter creates a JSONWriter. color selects prettyjson's colored output.
func NewJSONWriter(w io.Writer, color bool) *JSONWriter {
	j := &JSONWriter{w: w, color: color, patterns: []spmf.Pattern{}}
	j.writeAller = writeAller{write: j.Write}
	return j
}

func (j *JSONWriter) Write(p spmf.Pattern) error {
	j.patterns = append(j.patterns, p)
	return nil
}

// Close writes the collected array.
func (j *JSONWriter) Close() error {
	var (
		data []byte
		err  error
	)
	if j.color {
		data, err = prettyjson.Marshal(j.patterns)
	} else {
		data, err = json.MarshalIndent(j.patterns, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = j.w.Write(append(data, '\n'))
	return err
}

// JSONLinesWriter prints one compact JSON object per pattern.
type JSONLinesWriter struct {
	writeAller
	enc *json.Encoder
}

// NewJSONLinesWriter creates a JSONLinesWriter.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	j := &JSONLinesWriter{enc: json.NewEncoder(w)}
	j.writeAller = writeAller{write: j.Write}
	return j
}

func (j *JSONLinesWriter) Write(p spmf.Pattern) error {
	return j.enc.Encode(p)
}

func (j *JSONLinesWriter) Close() error {
	return nil
}

// MsgpackWriter streams patterns as consecutive msgpack values.
type MsgpackWriter struct {
	writeAller
	enc *msgpack.Encoder
}

// NewMsgpackWriter creates a MsgpackWriter.
func NewMsgpackWriter(w io.Writer) *MsgpackWriter {
	m := &MsgpackWriter{enc: msgpack.NewEncoder(w)}
	m.writeAller = writeAller{write: m.Write}
	return m
}

func (m *MsgpackWriter) Write(p spmf.Pattern) error {
	return m.enc.Encode(p)
}

func (m *MsgpackWriter) Close() error {
	return nil
}

// ReadMsgpack decodes every pattern written by a MsgpackWriter.
func ReadMsgpack(r io.Reader) ([]spmf.Pattern, error) {
	dec := msgpack.NewDecoder(r)
	var out []spmf.Pattern
	for {
		var p spmf.Pattern
		if err := dec.Decode(&p); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		out = append(out, p)
	}
}

// TemplateWriter executes a template per pattern.
type TemplateWriter struct {
	writeAller
	w   io.Writer
	tpl *template.Template
}

// NewTemplateWriter parses src. Besides sprig, the template may call
// "items" to split a pattern's itemsets into tokens.
func NewTemplateWriter(w io.Writer, src string) (*TemplateWriter, error) {
	if src == "" {
		return nil, fmt.Errorf("template is empty")
	}
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}

	funcs := sprig.TxtFuncMap()
	funcs["items"] = func(p spmf.Pattern) [][]string { return p.Items() }

	tpl, err := template.New("pattern").Funcs(funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	t := &TemplateWriter{w: w, tpl: tpl}
	t.writeAller = writeAller{write: t.Write}
	return t, nil
}

func (t *TemplateWriter) Write(p spmf.Pattern) error {
	return t.tpl.Execute(t.w, p)
}

func (t *TemplateWriter) Close() error {
	return nil
}
