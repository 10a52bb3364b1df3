package generation

// Template is a ready-made topic the user can start from.
type Template struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

var Templates = []Template{
	{
		Title:       "Product Launch Announcement",
		Description: "Announce a new product or feature",
		Prompt:      "Write a product launch announcement for a new AI-powered smart home device",
	},
	{
		Title:       "Weekly Newsletter",
		Description: "Create a weekly update for your audience",
		Prompt:      "Create a weekly newsletter about technology trends and innovations",
	},
	{
		Title:       "How-to Guide",
		Description: "Explain a process or technique",
		Prompt:      "Write a how-to guide on improving productivity with AI tools",
	},
	{
		Title:       "Customer Success Story",
		Description: "Showcase a customer's positive experience",
		Prompt:      "Create a customer success story about someone who improved their business with AI",
	},
}
