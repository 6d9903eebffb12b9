package gallery

import (
	"bytes"
	"encoding/json"
)

// Image is one photo record as returned by the photo API. Only the fields
// the gallery renders or exposes are decoded.
type Image struct {
	ID             string       `json:"id"`
	Width          int          `json:"width,omitempty"`
	Height         int          `json:"height,omitempty"`
	Color          string       `json:"color,omitempty"`
	Description    *string      `json:"description"`
	AltDescription *string      `json:"alt_description"`
	URLs           ImageURLs    `json:"urls"`
	Links          ImageLinks   `json:"links"`
	User           Photographer `json:"user"`
}

// ImageURLs are the rendition URLs for an image.
type ImageURLs struct {
	Raw     string `json:"raw,omitempty"`
	Full    string `json:"full,omitempty"`
	Regular string `json:"regular,omitempty"`
	Small   string `json:"small,omitempty"`
	Thumb   string `json:"thumb,omitempty"`
}

// ImageLinks are the image's pages on the provider site.
type ImageLinks struct {
	HTML string `json:"html,omitempty"`
}

// Photographer identifies the image's author.
type Photographer struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Alt returns the alt text, or "" when the API sent null.
func (i Image) Alt() string {
	if i.AltDescription == nil {
		return ""
	}
	return *i.AltDescription
}

// Normalize extracts image records from a response body. A bare JSON
// array is used as is; an object's "results" array is used otherwise.
// Any other shape, including malformed JSON, yields an empty slice.
// Elements that do not decode are dropped. Unlike a plain pass-through of
// the array, records without an id are dropped too, since the id keys each
// rendered image.
func Normalize(body []byte) []Image {
	items := rawItems(bytes.TrimSpace(body))
	images := make([]Image, 0, len(items))
	for _, raw := range items {
		var img Image
		if err := json.Unmarshal(raw, &img); err != nil || img.ID == "" {
			continue
		}
		images = append(images, img)
	}
	return images
}

func rawItems(body []byte) []json.RawMessage {
	if len(body) == 0 {
		return nil
	}

	var items []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
	case '{':
		var envelope struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil
		}
		results := bytes.TrimSpace(envelope.Results)
		if len(results) == 0 || results[0] != '[' {
			return nil
		}
		if err := json.Unmarshal(results, &items); err != nil {
			return nil
		}
	}
	return items
}
