package domain

// Resource is a fixed external reference link shown in the sidebar.
// Informational only, no interactivity beyond the link itself.
type Resource struct {
	Title string `json:"title"`
	Note  string `json:"note"`
	URL   string `json:"url"`
}

// LegalResources returns the sidebar links in display order.
func LegalResources() []Resource {
	return []Resource{
		{
			Title: "Indian Constitution",
			Note:  "Read here (English)",
			URL:   "https://legislative.gov.in/constitution-of-india/",
		},
		{
			Title: "Supreme Court of India",
			Note:  "Judgments and case laws",
			URL:   "https://www.sci.gov.in/",
		},
		{
			Title: "National Legal Services Authority (NALSA)",
			Note:  "Legal aid services",
			URL:   "https://nalsa.gov.in/",
		},
		{
			Title: "Legal Services India",
			Note:  "Legal information and resources",
			URL:   "https://legalserviceindia.com/",
		},
	}
}
