// xmlutil/codec.go

// Package xmlutil wraps the etree document model behind the small lookup
// and build surface the wire codecs use. The lookup semantics are "first
// matching descendant anywhere below the element", not "direct child" —
// callers rely on this to skip wrapper elements without spelling out full
// paths. That behavior can pick up a same-named element from an unrelated
// nested block; it is kept exactly as-is and isolated here so it could be
// tightened later without touching callers.
package xmlutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	fw_errors "github.com/dev-mohitbeniwal/fundwire/errors"
	logger "github.com/dev-mohitbeniwal/fundwire/logging"
)

// Parse reads a document from raw XML text. Inputs that are empty or do
// not look like XML (no leading '<') are rejected up front: that is the
// expected signal for "no data / credentials invalid / proxy blocked",
// not a fatal condition, so callers get a nil document and decide how to
// warn.
func Parse(raw string) (*etree.Document, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.HasPrefix(trimmed, "<") {
		return nil, fw_errors.ErrEmptyResponse
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		logger.Warn("Failed to parse XML document", zap.Error(err))
		return nil, fmt.Errorf("parse XML: %w", err)
	}
	return doc, nil
}

// FindAll returns every descendant element with the given tag, in document
// order. The walk is an explicit depth-first traversal rather than an etree
// path query: path queries visit shallow elements before deeper ones, and
// the codecs need strict document order.
func FindAll(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	var matches []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			matches = append(matches, child)
		}
		matches = append(matches, FindAll(child, tag)...)
	}
	return matches
}

// First returns the first descendant element with the given tag anywhere
// under el, in document order, or nil.
func First(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := First(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// TextOf returns the text of the first descendant element with the given
// tag, or "" when absent.
func TextOf(el *etree.Element, tag string) string {
	if el == nil {
		return ""
	}
	found := First(el, tag)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// NestedTextOf walks the tag path hop by hop, at each step taking the
// first matching descendant of the current node. A missing hop yields "".
func NestedTextOf(el *etree.Element, tagPath ...string) string {
	current := el
	for _, tag := range tagPath {
		if current == nil {
			return ""
		}
		current = First(current, tag)
	}
	if current == nil {
		return ""
	}
	return strings.TrimSpace(current.Text())
}

// NewDocument builds a document with one root element carrying the given
// attributes, declaration included. Attributes are emitted in sorted key
// order so repeated builds serialize identically.
func NewDocument(rootTag string, attrs map[string]string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(rootTag)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		root.CreateAttr(k, attrs[k])
	}
	return doc, root
}

// AppendText adds a child element with text content and returns it.
func AppendText(parent *etree.Element, tag, text string) *etree.Element {
	child := parent.CreateElement(tag)
	child.SetText(text)
	return child
}

// Serialize renders the document with stable two-space indentation. The
// rule sync protocol depends on the serialization being reproducible, so
// every document in the client goes through this one function.
func Serialize(doc *etree.Document) (string, error) {
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize XML: %w", err)
	}
	return out, nil
}
