package gen

import (
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Funcs are the predefined template functions used by the codegen.
	Funcs = template.FuncMap{
		"lower":               strings.ToLower,
		"upper":               strings.ToUpper,
		"title":               title,
		"pascal":              pascal,
		"camel":               camel,
		"snake":               snake,
		"plural":              plural,
		"singular":            rules.Singularize,
		"join":                strings.Join,
		"hasPrefix":           strings.HasPrefix,
		"hasSuffix":           strings.HasSuffix,
		"trimSuffix":          strings.TrimSuffix,
		"replace":             strings.ReplaceAll,
		"quote":               strconv.Quote,
		"uuid":                uuid.NewString,
		"scalarAttributes":    scalarAttributes,
		"optionalAttributes":  optionalAttributes,
		"toManyRelationships": toManyRelationships,
		"toOneRelationships":  toOneRelationships,
	}
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

// plural returns the plural form of the given name. Names that do not
// change get a "List" suffix.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "List"
	}
	return p
}

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms.
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML",
		"HTTP", "HTTPS", "ID", "IP", "JSON", "MO", "RAM", "RPC", "SQL", "SSH",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// title upper-cases the first letter of every word.
// A new caser is used on each call, casers hold state.
func title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// pascal converts the given name into a PascalCase.
//
//	user_info  => UserInfo
//	full_name  => FullName
//	user_id    => UserID
//	full-admin => FullAdmin
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	return pascalWords(words)
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// camel converts the given name into a camelCase.
//
//	user_info  => userInfo
//	full_name  => fullName
//	user_id    => userID
//	full-admin => fullAdmin
func camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return lowerFirst(words[0])
	}
	return strings.ToLower(words[0]) + pascalWords(words[1:])
}

// lowerFirst lower-cases the leading upper-case run of s, keeping the last
// letter of the run when it starts the next word.
//
//	Person      => person
//	URLSession  => urlSession
//	ID          => id
func lowerFirst(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func scalarAttributes(e *Entity) []*Attribute {
	return filterAttributes(e, (*Attribute).IsScalar)
}

func optionalAttributes(e *Entity) []*Attribute {
	return filterAttributes(e, (*Attribute).Optional)
}

func filterAttributes(e *Entity, keep func(*Attribute) bool) []*Attribute {
	var attrs []*Attribute
	for _, a := range e.attributes {
		if keep(a) {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func toManyRelationships(e *Entity) []*Relationship {
	return filterRelationships(e, (*Relationship).ToMany)
}

func toOneRelationships(e *Entity) []*Relationship {
	return filterRelationships(e, (*Relationship).ToOne)
}

func filterRelationships(e *Entity, keep func(*Relationship) bool) []*Relationship {
	var rels []*Relationship
	for _, r := range e.relationships {
		if keep(r) {
			rels = append(rels, r)
		}
	}
	return rels
}
