// Package hscodes holds the embedded HTS reference table the classifier works
// against. The table is parsed once at init and read-only afterwards.
package hscodes

import (
	"encoding/csv"
	"fmt"
	"strings"
	"sync"
)

type Entry struct {
	Code        string // full code with statistical suffix, e.g. "0901.21.00.49"
	BaseCode    string // heading.subheading.tariff, e.g. "0901.21.00"
	StatSuffix  string // statistical suffix, e.g. "49"; empty for 8-digit lines
	Description string
	Unit        string
	RateGeneral string
	RateSpecial string
	RateCol2    string
}

type Table struct {
	entries []Entry
	byCode  map[string]int
}

var (
	once sync.Once
	tbl  *Table
)

// Default returns the embedded table, parsing it on first use.
func Default() *Table {
	once.Do(func() {
		t, err := parse(document)
		if err != nil {
			// The document is compiled in; a parse failure is a build defect.
			panic(fmt.Sprintf("hscodes: embedded document: %v", err))
		}
		tbl = t
	})
	return tbl
}

func parse(doc string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(doc))
	r.FieldsPerRecord = 6
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}
	t := &Table{byCode: make(map[string]int, len(records)-1)}
	for _, rec := range records[1:] { // skip header
		code := strings.TrimSpace(rec[0])
		base, suffix := SplitSuffix(code)
		t.byCode[code] = len(t.entries)
		t.entries = append(t.entries, Entry{
			Code:        code,
			BaseCode:    base,
			StatSuffix:  suffix,
			Description: strings.TrimSpace(rec[1]),
			Unit:        rec[2],
			RateGeneral: rec[3],
			RateSpecial: rec[4],
			RateCol2:    rec[5],
		})
	}
	return t, nil
}

// Document returns the raw CSV text embedded into the classification prompt.
func (t *Table) Document() string { return document }

func (t *Table) Entries() []Entry { return t.entries }

// Lookup finds an entry by full code ("0901.21.00.49") or by base code plus
// suffix ("0901.21.00", "49").
func (t *Table) Lookup(code string) (Entry, bool) {
	if i, ok := t.byCode[strings.TrimSpace(code)]; ok {
		return t.entries[i], true
	}
	return Entry{}, false
}

// LookupBase returns all entries under a base code, in document order.
func (t *Table) LookupBase(base string) []Entry {
	base = strings.TrimSpace(base)
	var out []Entry
	for _, e := range t.entries {
		if e.BaseCode == base {
			out = append(out, e)
		}
	}
	return out
}

// DefaultOther returns the catch-all "Other" line under a base code: the last
// entry whose description ends in "Other", or the last entry when none does.
func (t *Table) DefaultOther(base string) (Entry, bool) {
	entries := t.LookupBase(base)
	if len(entries) == 0 {
		return Entry{}, false
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.HasSuffix(entries[i].Description, "Other") {
			return entries[i], true
		}
	}
	return entries[len(entries)-1], true
}

// SplitSuffix splits a full HTS code into base code and statistical suffix.
// "0901.21.00.49" -> ("0901.21.00", "49"); codes with three or fewer segments
// are returned unchanged with an empty suffix.
func SplitSuffix(code string) (base, suffix string) {
	parts := strings.Split(strings.TrimSpace(code), ".")
	if len(parts) >= 4 && isDigits(parts[3]) {
		return strings.Join(parts[:3], "."), parts[3]
	}
	return strings.TrimSpace(code), ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Keyword sets used to spot processing-state wording in descriptions and in
// the model's visual analysis. Matching is lowercase substring.

var processedWords = []string{"roasted", "processed", "cooked", "fermented", "dried"}

var unprocessedWords = []string{"not roasted", "not processed", "not fermented", "raw", "fresh", "unprocessed"}

// DescribesProcessed reports whether a description names a processed state,
// taking care that "not roasted" does not count as "roasted".
func DescribesProcessed(desc string) bool {
	d := strings.ToLower(desc)
	if DescribesUnprocessed(desc) {
		return false
	}
	for _, w := range processedWords {
		if strings.Contains(d, w) {
			return true
		}
	}
	return false
}

func DescribesUnprocessed(desc string) bool {
	d := strings.ToLower(desc)
	for _, w := range unprocessedWords {
		if strings.Contains(d, w) {
			return true
		}
	}
	return false
}

// LooksProcessed matches free-text visual observations (color, state) against
// processed-appearance vocabulary.
func LooksProcessed(observation string) bool {
	o := strings.ToLower(observation)
	for _, w := range []string{"brown", "black", "dark", "dried", "charred", "roasted", "cooked", "fermented", "processed"} {
		// "not roasted" and "unprocessed" must not count as processed.
		if strings.Contains(o, w) && !strings.Contains(o, "not "+w) && !strings.Contains(o, "un"+w) {
			return true
		}
	}
	return false
}

func LooksUnprocessed(observation string) bool {
	o := strings.ToLower(observation)
	for _, w := range []string{"green", "light", "pale", "fresh", "raw", "white", "unprocessed", "not roasted", "not fermented"} {
		if strings.Contains(o, w) {
			return true
		}
	}
	return false
}
