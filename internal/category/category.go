package category

// Category is a catalog grouping shown on the storefront landing page.
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}
