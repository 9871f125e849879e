package domain

// Embed is the chat-platform display projection of a MemeItem.
type Embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedAuthor is the author block of an Embed.
type EmbedAuthor struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// EmbedImage is the image block of an Embed.
type EmbedImage struct {
	URL string `json:"url"`
}

// EmbedFooter is the footer block of an Embed.
type EmbedFooter struct {
	Text string `json:"text"`
}
