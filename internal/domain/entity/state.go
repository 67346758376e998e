package entity

import (
	"fmt"
	"sort"
	"strings"
)

type TabInfo struct {
	PageID int    `json:"page_id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// DOMElement is one interactive element of the harvested page state.
// BranchPathHash is a structural fingerprint of the element's position
// in the element tree; it is what drift detection compares between
// states, not the element content itself.
type DOMElement struct {
	Index          int
	Tag            string
	Text           string
	Attributes     map[string]string
	Selector       string
	InViewport     bool
	BranchPathHash string
}

// String renders the element the way it appears in the state text sent
// to the caller, e.g. [3]<button aria-label="Search">Go</button>.
func (e DOMElement) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d]<%s", e.Index, e.Tag)

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := e.Attributes[k]; v != "" {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}

	fmt.Fprintf(&b, ">%s</%s>", e.Text, e.Tag)
	return b.String()
}

// BrowserState is a snapshot of the session: page identity, open tabs
// and the indexed set of interactive elements a plan is computed against.
type BrowserState struct {
	URL         string
	Title       string
	Tabs        []TabInfo
	SelectorMap map[int]DOMElement
}

// ElementTree renders the interactive elements in index order.
func (s *BrowserState) ElementTree() string {
	indices := make([]int, 0, len(s.SelectorMap))
	for idx := range s.SelectorMap {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	lines := make([]string, 0, len(indices))
	for _, idx := range indices {
		lines = append(lines, s.SelectorMap[idx].String())
	}
	return strings.Join(lines, "\n")
}

// HashSet collects the identity hashes of every interactive element.
func (s *BrowserState) HashSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.SelectorMap))
	for _, el := range s.SelectorMap {
		set[el.BranchPathHash] = struct{}{}
	}
	return set
}
