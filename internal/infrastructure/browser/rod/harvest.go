package rod

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// harvestJS collects every visible interactive element with a stable
// CSS selector and its structural path through the element tree. The
// path feeds identity hashing; the selector feeds later interaction.
const harvestJS = `() => {
	const INTERACTIVE_TAGS = ["a", "button", "input", "select", "textarea", "summary"];
	const INTERACTIVE_ROLES = ["button", "link", "tab", "menuitem", "checkbox", "radio", "combobox", "option", "switch"];

	const isInteractive = (el) => {
		const tag = el.tagName.toLowerCase();
		if (INTERACTIVE_TAGS.includes(tag)) return true;
		const role = el.getAttribute("role");
		if (role && INTERACTIVE_ROLES.includes(role)) return true;
		if (el.hasAttribute("onclick")) return true;
		if (el.getAttribute("contenteditable") === "true") return true;
		return false;
	};

	const isVisible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden" || style.opacity === "0") return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};

	const inViewport = (el) => {
		const rect = el.getBoundingClientRect();
		return rect.top < window.innerHeight && rect.bottom >= 0 &&
			rect.left < window.innerWidth && rect.right >= 0;
	};

	const siblingIndex = (node) => {
		let i = 1, sib = node;
		while ((sib = sib.previousElementSibling) !== null) {
			if (sib.tagName === node.tagName) i++;
		}
		return i;
	};

	const pathOf = (el) => {
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE && node.tagName.toLowerCase() !== "html") {
			parts.unshift(node.tagName.toLowerCase() + "[" + siblingIndex(node) + "]");
			node = node.parentElement;
		}
		return parts.join("/");
	};

	const selectorOf = (el) => {
		if (el.id) return "#" + CSS.escape(el.id);
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE && node.tagName.toLowerCase() !== "html") {
			parts.unshift(node.tagName.toLowerCase() + ":nth-of-type(" + siblingIndex(node) + ")");
			node = node.parentElement;
		}
		return parts.join(" > ");
	};

	const out = [];
	for (const el of document.querySelectorAll("*")) {
		if (out.length >= 400) break;
		if (!isInteractive(el) || !isVisible(el)) continue;

		const attrs = {};
		for (const name of ["id", "name", "type", "placeholder", "aria-label", "role", "href", "value", "title"]) {
			let v = el.getAttribute(name);
			// The live value property, not the initial attribute, is what
			// matters for form fields.
			if (name === "value" && typeof el.value === "string" && el.value !== "") v = el.value;
			if (v) attrs[name] = v.slice(0, 120);
		}

		out.push({
			tag: el.tagName.toLowerCase(),
			text: (el.innerText || el.value || "").trim().slice(0, 160),
			path: pathOf(el),
			selector: selectorOf(el),
			inViewport: inViewport(el),
			attrs: attrs,
		});
	}
	return out;
}`

// harvest evaluates harvestJS on the current page and builds the
// selector map. Callers must hold s.mu.
func (s *Session) harvest(ctx context.Context) (map[int]entity.DOMElement, error) {
	obj, err := s.page.Context(ctx).Timeout(s.timeout).Eval(harvestJS)
	if err != nil {
		return nil, fmt.Errorf("evaluate harvest script: %w", err)
	}

	selectorMap := make(map[int]entity.DOMElement)
	for i, item := range obj.Value.Arr() {
		attrs := make(map[string]string)
		for key, value := range item.Get("attrs").Map() {
			if v := value.Str(); v != "" {
				attrs[key] = v
			}
		}

		el := entity.DOMElement{
			Index:      i + 1,
			Tag:        item.Get("tag").Str(),
			Text:       item.Get("text").Str(),
			Attributes: attrs,
			Selector:   item.Get("selector").Str(),
			InViewport: item.Get("inViewport").Bool(),
		}
		el.BranchPathHash = branchPathHash(item.Get("path").Str(), el)
		selectorMap[el.Index] = el
	}
	return selectorMap, nil
}

// identityAttrs are the attributes that participate in the identity
// hash. Content-ish attributes (href, value, title) and the element
// text stay out so that benign content updates do not read as drift.
var identityAttrs = []string{"id", "name", "type", "placeholder", "aria-label", "role"}

// branchPathHash fingerprints an element's position in the element
// tree. Equal hashes across two states mean the element kept its place;
// a hash disappearing means some planned index may now be stale.
func branchPathHash(path string, el entity.DOMElement) string {
	parts := make([]string, 0, 2+len(identityAttrs))
	parts = append(parts, path, el.Tag)
	for _, key := range identityAttrs {
		parts = append(parts, el.Attributes[key])
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%016x", h.Sum64())
}
