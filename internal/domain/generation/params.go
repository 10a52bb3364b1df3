package generation

import (
	"fmt"
	"strings"
)

type ContentType string

const (
	ContentBlog    ContentType = "blog"
	ContentEmail   ContentType = "email"
	ContentSocial  ContentType = "social"
	ContentStory   ContentType = "story"
	ContentCode    ContentType = "code"
	ContentSummary ContentType = "summary"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
	ToneHumorous     Tone = "humorous"
)

const (
	MinLength     = 100
	MaxLength     = 2000
	LengthStep    = 100
	DefaultLength = 500
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	ContentTypes = []Option{
		{Value: string(ContentBlog), Label: "Blog Post"},
		{Value: string(ContentEmail), Label: "Email"},
		{Value: string(ContentSocial), Label: "Social Media"},
		{Value: string(ContentStory), Label: "Story"},
		{Value: string(ContentCode), Label: "Code"},
		{Value: string(ContentSummary), Label: "Summary"},
	}

	Tones = []Option{
		{Value: string(ToneProfessional), Label: "Professional"},
		{Value: string(ToneCasual), Label: "Casual"},
		{Value: string(ToneFriendly), Label: "Friendly"},
		{Value: string(ToneFormal), Label: "Formal"},
		{Value: string(ToneHumorous), Label: "Humorous"},
	}
)

// Params are the settings collected by the content-generation form.
type Params struct {
	ContentType     ContentType `json:"content_type" validate:"required,oneof=blog email social story code summary"`
	Topic           string      `json:"topic" validate:"notblank"`
	Tone            Tone        `json:"tone" validate:"required,oneof=professional casual friendly formal humorous"`
	Length          int         `json:"length" validate:"min=100,max=2000"`
	IncludeKeywords bool        `json:"include_keywords"`
	Keywords        string      `json:"keywords,omitempty"`
}

// DefaultParams mirrors the form's initial state.
func DefaultParams() Params {
	return Params{
		ContentType: ContentBlog,
		Tone:        ToneProfessional,
		Length:      DefaultLength,
	}
}

// WithDefaults fills unset fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.ContentType == "" {
		p.ContentType = d.ContentType
	}
	if p.Tone == "" {
		p.Tone = d.Tone
	}
	if p.Length == 0 {
		p.Length = d.Length
	}
	return p
}

// CanSubmit reports whether the form may be submitted: the topic must not
// be blank.
func (p Params) CanSubmit() bool {
	return strings.TrimSpace(p.Topic) != ""
}

// HasKeywords reports whether the keyword clause is part of the prompt.
func (p Params) HasKeywords() bool {
	return p.IncludeKeywords && strings.TrimSpace(p.Keywords) != ""
}

// Prompt builds the single prompt string sent to the completion provider.
func (p Params) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s about \"%s\" in a %s tone", p.ContentType, p.Topic, p.Tone)
	if p.HasKeywords() {
		fmt.Fprintf(&b, " including the following keywords: %s", p.Keywords)
	}
	fmt.Fprintf(&b, ". The content should be approximately %d words long.", p.Length)
	return b.String()
}

// Label returns the display label of the content type, or the raw value.
func (c ContentType) Label() string {
	return labelFor(ContentTypes, string(c))
}

func (t Tone) Label() string {
	return labelFor(Tones, string(t))
}

func labelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
