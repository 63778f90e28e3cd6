// Package siteurl parses the SharePoint Online addresses accepted on the
// command line, e.g. https://contoso.sharepoint.com/sites/team/Shared Documents/reports.
package siteurl

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultLibrary is used when the address names a site but no library.
const DefaultLibrary = "Shared Documents"

const (
	hostSuffix      = "sharepoint.com"
	minHostSegments = 3
	minPathSegments = 2
	sitesSegment    = "sites"
)

// ErrInvalid is matched by every error returned from Parse.
var ErrInvalid = errors.New("siteurl: invalid address")

// URL is a parsed SharePoint Online folder address.
type URL struct {
	Scheme string
	Host   string // contoso.sharepoint.com
	Port   int    // 0 when the address has no explicit port
	Domain string // contoso
	Site   string // team
	Path   string // server-relative folder path, /sites/team/Shared Documents
}

// Parse validates raw and splits it into its SharePoint parts. The address
// must point into a site ("/sites/<name>"); when it stops at the site, the
// default document library is appended to Path.
func Parse(raw string) (*URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if u.Scheme == "" || u.Hostname() == "" {
		return nil, invalid("Address '%s' must be absolute, e.g. https://yourdomain.sharepoint.com/sites/site", raw)
	}

	host := u.Hostname()
	if !strings.HasSuffix(host, hostSuffix) {
		return nil, invalid("Unexpected server, it is '%s' should be '%s'", host, hostSuffix)
	}

	hostSegments := splitNonEmpty(host, ".")
	if len(hostSegments) < minHostSegments {
		return nil, invalid("Unexpected number of segments in host([%s]). It is '%d', expected >= %d.",
			strings.Join(hostSegments, ", "), len(hostSegments), minHostSegments)
	}

	pathSegments := splitNonEmpty(u.Path, "/")
	if len(pathSegments) < minPathSegments {
		return nil, invalid("Unexpected number of segments in path([%s]). It is '%d', expected >= '%d'.",
			strings.Join(pathSegments, ", "), len(pathSegments), minPathSegments)
	}

	if pathSegments[0] != sitesSegment {
		return nil, invalid("Unexpected first segment in path([%s]). It is '%s', expected '%s'.",
			strings.Join(pathSegments, ", "), pathSegments[0], sitesSegment)
	}

	if len(pathSegments) == minPathSegments {
		pathSegments = append(pathSegments, DefaultLibrary)
	}

	var port int

	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, invalid("Unexpected port '%s'", p)
		}
	}

	return &URL{
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
		Domain: hostSegments[len(hostSegments)-minHostSegments],
		Site:   pathSegments[1],
		Path:   "/" + strings.Join(pathSegments, "/"),
	}, nil
}

// ServerURL is the address without a path, e.g. https://contoso.sharepoint.com.
func (u *URL) ServerURL() string {
	if u.Port == 0 {
		return u.Scheme + "://" + u.Host
	}

	return u.Scheme + "://" + u.Host + ":" + strconv.Itoa(u.Port)
}

// SiteURL is the site's root address, e.g. https://contoso.sharepoint.com/sites/team.
func (u *URL) SiteURL() string {
	return u.ServerURL() + "/" + sitesSegment + "/" + url.PathEscape(u.Site)
}

// String returns the full folder address.
func (u *URL) String() string {
	return u.ServerURL() + u.Path
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func splitNonEmpty(s, sep string) []string {
	var out []string

	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
