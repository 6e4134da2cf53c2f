package imagesapi

import "strings"

// Image mirrors one entry of the images listing.
type Image struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	MainAttachment Attachment `json:"main_attachment"`
	LikesCount     int        `json:"likes_count"`
}

// Attachment holds the URL variants of an image asset.
type Attachment struct {
	Big   string `json:"big"`
	Small string `json:"small,omitempty"`
}

// PreferredURL returns the big variant, falling back to small.
func (a Attachment) PreferredURL() string {
	if big := strings.TrimSpace(a.Big); big != "" {
		return big
	}
	return strings.TrimSpace(a.Small)
}

// BaseLikes clamps the server count to zero. The service is expected to
// never report a negative count, but the display math relies on it.
func (i Image) BaseLikes() int {
	if i.LikesCount < 0 {
		return 0
	}
	return i.LikesCount
}

// Asset is what a HEAD probe learns about an attachment.
type Asset struct {
	URL         string
	ContentType string
	Size        int64 // -1 when the server omits Content-Length
}
