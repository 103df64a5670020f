package model

type ResponsiveImage struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

type Image struct {
	URL             string           `json:"url"`
	Alt             string           `json:"alt"`
	Width           int              `json:"width,omitempty"`
	Height          int              `json:"height,omitempty"`
	BlurUpThumb     string           `json:"blurUpThumb,omitempty"`
	ResponsiveImage *ResponsiveImage `json:"responsiveImage,omitempty"`
}

// HomePage CMS 首页内容
type HomePage struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	HeaderImage *Image `json:"headerImage,omitempty"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type TestLocation struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    GeoPoint `json:"location"`
	CreatedAt   string   `json:"createdAt"`
}

type FileField struct {
	ID              string           `json:"id"`
	URL             string           `json:"url"`
	Alt             string           `json:"alt,omitempty"`
	Title           string           `json:"title,omitempty"`
	Width           int              `json:"width,omitempty"`
	Height          int              `json:"height,omitempty"`
	ResponsiveImage *ResponsiveImage `json:"responsiveImage,omitempty"`
}

// Screenshot is a CMS gallery record; Images comes from the "myndir" field.
type Screenshot struct {
	ID        string      `json:"id"`
	Images    []FileField `json:"images"`
	CreatedAt string      `json:"createdAt"`
}
