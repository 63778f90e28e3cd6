package tree

// Property names one of the fixed document metadata fields.
type Property int

const (
	PropertyTitle Property = iota
	PropertySubject
	PropertyComment
	PropertyKeywords
	PropertyAuthor

	propertyCount
)

// Properties lists every Property in report column order.
var Properties = []Property{
	PropertyTitle,
	PropertySubject,
	PropertyComment,
	PropertyKeywords,
	PropertyAuthor,
}

var propertyNames = [propertyCount]string{
	PropertyTitle:    "title",
	PropertySubject:  "subject",
	PropertyComment:  "comment",
	PropertyKeywords: "keywords",
	PropertyAuthor:   "author",
}

func (p Property) String() string {
	if p < 0 || p >= propertyCount {
		return "unknown"
	}

	return propertyNames[p]
}

// DocumentProperties is the metadata of an office document. Every property
// is present; values missing upstream read as "".
type DocumentProperties struct {
	values [propertyCount]string
}

// NewDocumentProperties builds a property set from values. Properties not
// in the map are empty.
func NewDocumentProperties(values map[Property]string) DocumentProperties {
	var dp DocumentProperties

	for p, v := range values {
		if p >= 0 && p < propertyCount {
			dp.values[p] = v
		}
	}

	return dp
}

// Get returns the value of p.
func (dp DocumentProperties) Get(p Property) string {
	if p < 0 || p >= propertyCount {
		return ""
	}

	return dp.values[p]
}

// Values returns the values in Properties order.
func (dp DocumentProperties) Values() []string {
	out := make([]string, 0, len(Properties))
	for _, p := range Properties {
		out = append(out, dp.values[p])
	}

	return out
}
