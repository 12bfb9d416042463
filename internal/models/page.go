package models

// Page is a static HTML fragment served on a fixed path
type Page struct {
	Path      string
	Heading   string
	Paragraph string
	LinkHref  string
	LinkText  string
}

var (
	HomePage = &Page{
		Path:      "/",
		Heading:   "Welcome to My Flask Website!",
		Paragraph: "This is the home page. Deployed using Docker and ECS.",
		LinkHref:  "/about",
		LinkText:  "Go to About Page",
	}

	AboutPage = &Page{
		Path:      "/about",
		Heading:   "About This Project",
		Paragraph: "This is a demo website created using Flask, Docker, and deployed to AWS ECS.",
		LinkHref:  "/",
		LinkText:  "Back to Home",
	}
)

// Pages returns all registered pages in route registration order
func Pages() []*Page {
	return []*Page{HomePage, AboutPage}
}
