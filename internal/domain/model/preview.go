package model

// Preview is the readable text extracted from an article page.
type Preview struct {
	URL   string
	Title string
	Text  string
}
