package core

// ResourceKind names a cosmetic chapter resource.
type ResourceKind string

const (
	ResourceIcon       ResourceKind = "icon"
	ResourceBackground ResourceKind = "background"
)

// ChapterResources maps chapter ids to their icon and background URLs.
// A chapter that declares a resource as null is recorded with an empty URL,
// which is different from a chapter that does not mention the resource at all.
type ChapterResources struct {
	byKind map[ResourceKind]map[string]string
}

// BuildChapterResources collects the chapter resources of the given content docs.
// Later docs override earlier ones for the same chapter id.
func BuildChapterResources(docs []ContentDoc) *ChapterResources {
	res := &ChapterResources{
		byKind: map[ResourceKind]map[string]string{
			ResourceIcon:       {},
			ResourceBackground: {},
		},
	}

	for i := range docs {
		for j := range docs[i].Chapters {
			ch := &docs[i].Chapters[j]

			if ch.Background.Set {
				res.byKind[ResourceBackground][ch.ChapterID] = ch.Background.Value
			}

			if ch.Icon.Set {
				res.byKind[ResourceIcon][ch.ChapterID] = ch.Icon.Value
			}
		}
	}

	return res
}

// Lookup returns the URL of a chapter resource. ok is false for an unknown kind
// or chapter; for a chapter that explicitly has no resource, ok is true and url is empty.
func (r *ChapterResources) Lookup(kind ResourceKind, chapterID string) (url string, ok bool) {
	if r == nil {
		return "", false
	}

	byID, ok := r.byKind[kind]
	if !ok {
		return "", false
	}

	url, ok = byID[chapterID]

	return url, ok
}

// URL returns the resource URL, or an empty string when there is none.
func (r *ChapterResources) URL(kind ResourceKind, chapterID string) string {
	url, _ := r.Lookup(kind, chapterID)
	return url
}
