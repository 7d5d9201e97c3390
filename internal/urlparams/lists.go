package urlparams

import (
	"encoding/json"
	"fmt"
	"net/url"

	"wedding-invitation/internal/models"
)

// decodeList reads a JSON array parameter. Absent or unreadable input gives nil.
func decodeList[T any](values url.Values, key string, fail func(error)) []T {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil && unescaped != raw {
		if err := json.Unmarshal([]byte(unescaped), &out); err == nil {
			return out
		}
	}
	fail(fmt.Errorf("%w: %s", ErrMalformedList, key))
	return nil
}

// decodePhotos accepts bare URLs as well as {photo|url|src, title} objects.
func decodePhotos(values url.Values, fail func(error)) []models.GalleryPhoto {
	items := decodeList[json.RawMessage](values, "photos", fail)
	if items == nil {
		return nil
	}
	out := make([]models.GalleryPhoto, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, models.GalleryPhoto{Photo: s})
			}
			continue
		}
		var obj struct {
			Photo string `json:"photo"`
			URL   string `json:"url"`
			Src   string `json:"src"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		photo := obj.Photo
		if photo == "" {
			photo = obj.URL
		}
		if photo == "" {
			photo = obj.Src
		}
		if photo != "" {
			out = append(out, models.GalleryPhoto{Photo: photo, Title: obj.Title})
		}
	}
	return out
}
