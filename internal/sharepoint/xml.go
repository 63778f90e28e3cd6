package sharepoint

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// XML namespaces of the SharePoint wire protocol.
const (
	nsAtom     = "http://www.w3.org/2005/Atom"
	nsData     = "http://schemas.microsoft.com/ado/2007/08/dataservices"
	nsMetadata = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
	nsWSSE     = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	nsSOAP     = "http://www.w3.org/2003/05/soap-envelope"
)

// Atom category terms of REST entries.
const (
	termFile   = "SP.File"
	termFolder = "SP.Folder"
)

// errElementNotFound is returned by findElementText when the document has
// no element with the requested name.
var errElementNotFound = errors.New("element not found")

// findElementText returns the character data of the first element named
// {ns}local anywhere in the document. Nested markup inside the element is
// skipped; only its direct text is returned.
func findElementText(body []byte, ns, local string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", errElementNotFound
		}

		if err != nil {
			return "", err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != ns || start.Name.Local != local {
			continue
		}

		var text strings.Builder

		for depth := 1; depth > 0; {
			inner, err := dec.Token()
			if err != nil {
				return "", err
			}

			switch t := inner.(type) {
			case xml.StartElement:
				depth++
			case xml.EndElement:
				depth--
			case xml.CharData:
				if depth == 1 {
					text.Write(t)
				}
			}
		}

		return strings.TrimSpace(text.String()), nil
	}
}

// atomEntry mirrors an OData entry. Expanded navigation properties
// (Folders, Files) arrive as inline feeds under the entry's links.
type atomEntry struct {
	XMLName  xml.Name     `xml:"http://www.w3.org/2005/Atom entry"`
	Category atomCategory `xml:"http://www.w3.org/2005/Atom category"`
	Links    []atomLink   `xml:"http://www.w3.org/2005/Atom link"`
	Content  *atomContent `xml:"http://www.w3.org/2005/Atom content"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Rel    string      `xml:"rel,attr"`
	Title  string      `xml:"title,attr"`
	Inline *atomInline `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata inline"`
}

type atomInline struct {
	Feed *atomFeed `xml:"http://www.w3.org/2005/Atom feed"`
}

type atomFeed struct {
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomContent struct {
	Properties *propertyBag `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata properties"`
}

// propertyBag holds the d:* children of m:properties.
type propertyBag struct {
	Fields []propertyField `xml:",any"`
}

type propertyField struct {
	XMLName xml.Name
	Null    string `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata null,attr"`
	Value   string `xml:",chardata"`
}

// inlineEntries returns the entries of every expanded feed under e,
// in document order.
func (e *atomEntry) inlineEntries() []atomEntry {
	var out []atomEntry

	for _, l := range e.Links {
		if l.Inline == nil || l.Inline.Feed == nil {
			continue
		}

		out = append(out, l.Inline.Feed.Entries...)
	}

	return out
}

// properties returns the entry's m:properties, or nil when absent.
func (e *atomEntry) properties() *propertyBag {
	if e.Content == nil {
		return nil
	}

	return e.Content.Properties
}

// lookup returns the value of the d:name property. Properties marked
// m:null="true" are reported present with an empty value.
func (b *propertyBag) lookup(name string) (string, bool) {
	for _, f := range b.Fields {
		if f.XMLName.Space != nsData || f.XMLName.Local != name {
			continue
		}

		if f.Null == "true" {
			return "", true
		}

		return f.Value, true
	}

	return "", false
}

// text returns the d:name value, or "" when absent.
func (b *propertyBag) text(name string) string {
	v, _ := b.lookup(name)
	return v
}

// required returns the d:name value or an ErrMalformedResponse.
func (b *propertyBag) required(name string) (string, error) {
	v, ok := b.lookup(name)
	if !ok || v == "" {
		return "", malformed("missing d:%s", name)
	}

	return v, nil
}

// timestamp parses an Edm.DateTime property. Absent values yield the zero
// time; unparsable ones are malformed.
func (b *propertyBag) timestamp(name string) (time.Time, error) {
	v := b.text(name)
	if v == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, malformed("d:%s: %v", name, err)
	}

	return t.UTC(), nil
}

// integer parses an Edm.Int32/Int64 property. Absent values yield 0.
func (b *propertyBag) integer(name string) (int64, error) {
	v := b.text(name)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, malformed("d:%s: %v", name, err)
	}

	return n, nil
}

// decodeEntry unmarshals a single top-level Atom entry.
func decodeEntry(body []byte) (*atomEntry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, malformed("empty response body")
	}

	var entry atomEntry
	if err := xml.Unmarshal(body, &entry); err != nil {
		return nil, malformed("decoding atom entry: %v", err)
	}

	return &entry, nil
}
