package portfolio

import "fmt"

// Metadata 是站点页面的 head 信息，由聚合视图推导。
type Metadata struct {
	MetadataBase string    `json:"metadataBase"`
	Title        Title     `json:"title"`
	Description  string    `json:"description"`
	OpenGraph    OpenGraph `json:"openGraph"`
	Robots       Robots    `json:"robots"`
	Twitter      Twitter   `json:"twitter"`
}

type Title struct {
	Default  string `json:"default"`
	Template string `json:"template"`
}

type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SiteName    string `json:"siteName"`
	Locale      string `json:"locale"`
	Type        string `json:"type"`
}

type Robots struct {
	Index  bool `json:"index"`
	Follow bool `json:"follow"`
}

type Twitter struct {
	Title string `json:"title"`
	Card  string `json:"card"`
}

// BuildMetadata 根据个人信息生成页面元数据。
func BuildMetadata(p *Portfolio) Metadata {
	return Metadata{
		MetadataBase: p.URL,
		Title: Title{
			Default:  p.Name,
			Template: fmt.Sprintf("%%s | %s", p.Name),
		},
		Description: p.Description,
		OpenGraph: OpenGraph{
			Title:       p.Name,
			Description: p.Description,
			URL:         p.URL,
			SiteName:    p.Name,
			Locale:      "en_US",
			Type:        "website",
		},
		Robots:  Robots{Index: true, Follow: true},
		Twitter: Twitter{Title: p.Name, Card: "summary_large_image"},
	}
}
