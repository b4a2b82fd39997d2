package modmeta

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/modshipapp/modship/internal/domain"
)

// The conventional metadata accessor name in mod scripts.
const accessorName = "getMetadata"

// accessorPatterns match the accessor declaration up to the opening brace
// of the returned object literal. Each pattern covers one authoring style;
// the match ends exactly at that brace so the brace walker can take over.
var accessorPatterns = []*regexp.Regexp{
	// getMetadata: function (...) { ... return {
	regexp.MustCompile(`getMetadata\s*[:=]\s*function\s*\([^)]*\)\s*\{[\s\S]*?return\s*\{`),
	// getMetadata(...) { ... return {
	regexp.MustCompile(`getMetadata\s*\([^)]*\)\s*\{[\s\S]*?return\s*\{`),
	// getMetadata: (...) => { ... return {
	regexp.MustCompile(`getMetadata\s*[:=]\s*\([^)]*\)\s*=>\s*\{[\s\S]*?return\s*\{`),
	// getMetadata: (...) => ({
	regexp.MustCompile(`getMetadata\s*[:=]\s*\([^)]*\)\s*=>\s*\(\s*\{`),
	// getMetadata: x => ({
	regexp.MustCompile(`getMetadata\s*[:=]\s*[\w$]+\s*=>\s*\(\s*\{`),
}

// strategy is one attempt at recovering metadata from mod.js text.
type strategy struct {
	name string
	fn   func(text string) *domain.PackageMetadata
}

// Ordered from most to least structural. Later strategies recover less but
// tolerate more mangling (minifiers, string concatenation, odd formatting).
var scriptStrategies = []strategy{
	{name: "accessor object literal", fn: fromAccessorLiteral},
	{name: "inline JSON", fn: fromInlineJSON},
	{name: "field regexes", fn: fromFieldRegexes},
	{name: "minimal name and version", fn: fromMinimalFields},
}

// rawMeta is the intermediate decode target. Author is deferred because
// mods write it as either a plain string or an object with a name field.
type rawMeta struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Author      json.RawMessage `json:"author"`
	Tags        []string        `json:"tags"`
	Keywords    []string        `json:"keywords"`
}

func (r *rawMeta) toDomain() *domain.PackageMetadata {
	meta := &domain.PackageMetadata{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Version:     strings.TrimSpace(r.Version),
		Author:      decodeAuthor(r.Author),
	}

	titleSource := r.Title
	if titleSource == "" {
		titleSource = r.Name
	}
	meta.Title = FormatTitle(titleSource)

	tags := r.Tags
	if len(tags) == 0 {
		tags = r.Keywords
	}
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			meta.Tags = append(meta.Tags, t)
		}
	}
	return meta
}

// decodeAuthor accepts "author": "Ji Hao" as well as the npm-style
// "author": {"name": "Ji Hao", "email": ...} form.
func decodeAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}

// fromAccessorLiteral locates the accessor's returned object literal, walks
// it with the brace counter, normalizes the JavaScript literal into JSON,
// and decodes it.
func fromAccessorLiteral(text string) *domain.PackageMetadata {
	for _, pat := range accessorPatterns {
		loc := pat.FindStringIndex(text)
		if loc == nil {
			continue
		}
		// The pattern ends on the object's opening brace.
		start := loc[1] - 1
		end := braceSpan(text, start)
		if end < 0 {
			continue
		}
		literal := text[start : end+1]
		var raw rawMeta
		if err := json.Unmarshal([]byte(normalizeLiteral(literal)), &raw); err != nil {
			continue
		}
		if meta := raw.toDomain(); meta.IsUsable() {
			return meta
		}
	}
	return nil
}

// fromInlineJSON handles bundler output where the metadata object survives
// as strict JSON. Anchored at the accessor when present so an unrelated
// JSON blob earlier in the file is not picked up by accident.
func fromInlineJSON(text string) *domain.PackageMetadata {
	region := text
	if idx := strings.Index(text, accessorName); idx >= 0 {
		region = text[idx:]
	}
	start := strings.Index(region, `{"name":`)
	if start < 0 {
		start = strings.Index(region, `{ "name":`)
	}
	if start < 0 {
		return nil
	}
	end := braceSpan(region, start)
	if end < 0 {
		return nil
	}
	var raw rawMeta
	if err := json.Unmarshal([]byte(region[start:end+1]), &raw); err != nil {
		return nil
	}
	if meta := raw.toDomain(); meta.IsUsable() {
		return meta
	}
	return nil
}

var (
	nameFieldRe        = regexp.MustCompile(`["']?name["']?\s*:\s*["']([^"']+)["']`)
	versionFieldRe     = regexp.MustCompile(`["']?version["']?\s*:\s*["']([^"']+)["']`)
	descriptionFieldRe = regexp.MustCompile(`["']?description["']?\s*:\s*["']([^"']+)["']`)
	authorStringRe     = regexp.MustCompile(`["']?author["']?\s*:\s*["']([^"']+)["']`)
	authorObjectRe     = regexp.MustCompile(`["']?author["']?\s*:\s*\{[^}]*?["']?name["']?\s*:\s*["']([^"']+)["']`)
)

// fromFieldRegexes gives up on the object shape entirely and pulls
// individual fields out of the region following the accessor. Scripts
// without the accessor fall through to the minimal strategy.
func fromFieldRegexes(text string) *domain.PackageMetadata {
	idx := strings.Index(text, accessorName)
	if idx < 0 {
		return nil
	}
	region := text[idx:]

	name := firstGroup(nameFieldRe, region)
	if name == "" {
		return nil
	}
	author := firstGroup(authorObjectRe, region)
	if author == "" {
		author = firstGroup(authorStringRe, region)
	}
	return (&rawMeta{
		Name:        name,
		Version:     firstGroup(versionFieldRe, region),
		Description: firstGroup(descriptionFieldRe, region),
		Author:      json.RawMessage(mustJSONString(author)),
	}).toDomain()
}

// fromMinimalFields is the last resort: a name and version pair anywhere in
// the file, with no accessor anchor at all.
func fromMinimalFields(text string) *domain.PackageMetadata {
	name := firstGroup(nameFieldRe, text)
	if name == "" {
		return nil
	}
	return (&rawMeta{
		Name:    name,
		Version: firstGroup(versionFieldRe, text),
	}).toDomain()
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func mustJSONString(s string) string {
	if s == "" {
		return ""
	}
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

// braceSpan returns the index of the brace matching the opening brace at
// start, or -1 when the literal is unbalanced. Nesting depth is tracked
// through nested objects; quoted strings are skipped so braces inside
// string values do not skew the count.
func braceSpan(text string, start int) int {
	if start >= len(text) || text[start] != '{' {
		return -1
	}
	depth := 0
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// normalizeLiteral rewrites a JavaScript object literal into strict JSON:
// bare keys get quoted, single-quoted strings become double-quoted, and
// trailing commas are stripped. String contents are copied verbatim and
// only the code between them is rewritten, so punctuation inside a value
// cannot be mistaken for a key or a trailing comma.
func normalizeLiteral(literal string) string {
	var out strings.Builder
	out.Grow(len(literal))

	code := func(seg string) {
		seg = bareKeyRe.ReplaceAllString(seg, `$1"$2":`)
		out.WriteString(trailingCommaRe.ReplaceAllString(seg, `$1`))
	}

	segStart := 0
	for i := 0; i < len(literal); i++ {
		q := literal[i]
		if q != '"' && q != '\'' {
			continue
		}
		code(literal[segStart:i])

		j := i + 1
		for j < len(literal) && literal[j] != q {
			if literal[j] == '\\' {
				j++
			}
			j++
		}
		inner := literal[i+1 : min(j, len(literal))]
		if q == '\'' {
			inner = strings.ReplaceAll(inner, `\'`, `'`)
			inner = strings.ReplaceAll(inner, `"`, `\"`)
		}
		out.WriteString(`"` + inner + `"`)
		i = j
		segStart = j + 1
	}
	if segStart < len(literal) {
		code(literal[segStart:])
	}
	return out.String()
}
