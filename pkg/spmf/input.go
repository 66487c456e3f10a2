package spmf

import (
	"fmt"
	"strconv"
)

// Mode selects how raw input is turned into an SPMF input file.
type Mode string

const (
	ModeFile         Mode = "file"
	ModeNormalString Mode = "normal_str"
	ModeTextString   Mode = "text_str"
	ModeNormalList   Mode = "normal_list"
	ModeTextList     Mode = "text_list"
)

// Modes lists the accepted modes in documentation order.
var Modes = []Mode{ModeFile, ModeNormalString, ModeTextString, ModeNormalList, ModeTextList}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return "", ErrNoInputMode
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w, got %q", ErrUnknownMode, s)
}

// Suffix is the file extension SPMF expects for the mode's staging file.
// Text modes use ".text" so the tool treats the content as sentences.
func (m Mode) Suffix() string {
	switch m {
	case ModeTextString, ModeTextList:
		return ".text"
	default:
		return ".txt"
	}
}

// Input is a strongly typed input payload. Each mode has its own type so a
// payload can not disagree with its mode.
type Input interface {
	Mode() Mode
}

// File passes an existing SPMF input file through untouched.
type File string

// NormalString is text already in the sequence database grammar.
type NormalString string

// TextString is natural-language text.
type TextString string

// NormalList is a corpus of sequences of itemsets.
type NormalList []Sequence

// TextList is a corpus of sentences.
type TextList []string

func (File) Mode() Mode         { return ModeFile }
func (NormalString) Mode() Mode { return ModeNormalString }
func (TextString) Mode() Mode   { return ModeTextString }
func (NormalList) Mode() Mode   { return ModeNormalList }
func (TextList) Mode() Mode     { return ModeTextList }

// ParseInput builds a typed Input from an untyped payload, as decoded from
// JSON or YAML. path is only consulted in file mode, raw is ignored there.
func ParseInput(mode, path string, raw any) (Input, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	switch m {
	case ModeFile:
		if path == "" {
			return nil, ErrNoInputFile
		}
		return File(path), nil
	case ModeNormalString:
		s, ok := raw.(string)
		if !ok {
			return nil, shapeError(m, "a string", raw)
		}
		return NormalString(s), nil
	case ModeTextString:
		s, ok := raw.(string)
		if !ok {
			return nil, shapeError(m, "a string", raw)
		}
		return TextString(s), nil
	case ModeNormalList:
		seqs, err := toSequences(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a list of sequences of itemsets: %v", ErrInputShape, m, err)
		}
		return NormalList(seqs), nil
	default:
		sentences, err := toSentences(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects a list of strings: %v", ErrInputShape, m, err)
		}
		return TextList(sentences), nil
	}
}

func shapeError(m Mode, want string, got any) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrInputShape, m, want, got)
}

func toSequences(raw any) ([]Sequence, error) {
	switch v := raw.(type) {
	case NormalList:
		return v, nil
	case []Sequence:
		return v, nil
	case [][][]string:
		seqs := make([]Sequence, len(v))
		for i, seq := range v {
			seqs[i] = make(Sequence, len(seq))
			for j, set := range seq {
				seqs[i][j] = Itemset(set)
			}
		}
		return seqs, nil
	case [][][]int:
		seqs := make([]Sequence, len(v))
		for i, seq := range v {
			seqs[i] = make(Sequence, len(seq))
			for j, set := range seq {
				seqs[i][j] = Ints(set...)
			}
		}
		return seqs, nil
	case []any:
		seqs := make([]Sequence, len(v))
		for i, seq := range v {
			s, err := toSequence(seq)
			if err != nil {
				return nil, fmt.Errorf("sequence %d: %w", i, err)
			}
			seqs[i] = s
		}
		return seqs, nil
	default:
		return nil, fmt.Errorf("got %T", raw)
	}
}

func toSequence(raw any) (Sequence, error) {
	sets, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("got %T", raw)
	}
	seq := make(Sequence, len(sets))
	for i, set := range sets {
		items, ok := set.([]any)
		if !ok {
			return nil, fmt.Errorf("itemset %d: got %T", i, set)
		}
		seq[i] = make(Itemset, len(items))
		for j, item := range items {
			tok, err := Token(item)
			if err != nil {
				return nil, fmt.Errorf("itemset %d: %w", i, err)
			}
			seq[i][j] = tok
		}
	}
	return seq, nil
}

func toSentences(raw any) ([]string, error) {
	switch v := raw.(type) {
	case TextList:
		return v, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, s := range v {
			str, ok := s.(string)
			if !ok {
				return nil, fmt.Errorf("sentence %d: got %T", i, s)
			}
			out[i] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("got %T", raw)
	}
}

// Token renders a scalar item as an SPMF token.
func Token(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported item type %T", v)
	}
}
