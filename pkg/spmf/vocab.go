package spmf

import (
	"strconv"
	"strings"
	"sync"
)

// Vocabulary maps arbitrary tokens to the positive integer items most SPMF
// algorithms require, and back.
type Vocabulary struct {
	mu    sync.RWMutex
	ids   map[string]int
	names []string
}

// NewVocabulary creates an empty vocabulary. Ids start at 1.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

// ID returns the id of token, assigning the next free one if needed.
func (v *Vocabulary) ID(token string) int {
	v.mu.RLock()
	id, ok := v.ids[token]
	v.mu.RUnlock()
	if ok {
		return id
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.ids[token]; ok {
		return id
	}
	v.names = append(v.names, token)
	id = len(v.names)
	v.ids[token] = id
	return id
}

// Name returns the token for id.
func (v *Vocabulary) Name(id int) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if id < 1 || id > len(v.names) {
		return "", false
	}
	return v.names[id-1], true
}

// Len returns the number of known tokens.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.names)
}

// Encode maps every token of the corpus to its integer id.
func (v *Vocabulary) Encode(seqs []Sequence) NormalList {
	out := make(NormalList, len(seqs))
	for i, seq := range seqs {
		out[i] = make(Sequence, len(seq))
		for j, set := range seq {
			ids := make([]int, len(set))
			for k, tok := range set {
				ids[k] = v.ID(tok)
			}
			out[i][j] = Ints(ids...)
		}
	}
	return out
}

// Translate rewrites a decoded pattern's integer items back into tokens.
// Items unknown to the vocabulary are kept as is.
func (v *Vocabulary) Translate(p Pattern) Pattern {
	sets := make([]string, len(p.Itemsets))
	for i, set := range p.Itemsets {
		fields := strings.Fields(set)
		for j, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				continue
			}
			if name, ok := v.Name(id); ok {
				fields[j] = name
			}
		}
		sets[i] = strings.Join(fields, " ")
	}
	p.Itemsets = sets
	return p
}
