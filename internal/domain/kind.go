package domain

import "fmt"

// Kind names one content collection. Each kind is stored and replaced as a
// single blob.
type Kind string

const (
	KindNews       Kind = "news"
	KindEvents     Kind = "events"
	KindQuickLinks Kind = "quickLinks"
	KindPopups     Kind = "popups"
	KindForms      Kind = "forms"
	KindContact    Kind = "contact"
)

// Kinds lists every collection in a stable order.
var Kinds = []Kind{KindNews, KindEvents, KindQuickLinks, KindPopups, KindForms, KindContact}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown collection kind %q", s)
}

// Endpoint is the path segment of the remote resource.
func (k Kind) Endpoint() string {
	return string(k)
}

// CacheKey is the key of the local cached copy.
func (k Kind) CacheKey() string {
	switch k {
	case KindQuickLinks:
		return "sepri_quick_links"
	default:
		return "sepri_" + string(k)
	}
}

// BlobKey is the key in the server backing store.
func (k Kind) BlobKey() string {
	switch k {
	case KindQuickLinks:
		return "quick_links"
	default:
		return string(k)
	}
}

// Singleton reports whether the collection is one object instead of an array.
func (k Kind) Singleton() bool {
	return k == KindContact
}
