package shell

import (
	"encoding/json"
	"strings"
	"time"
)

// Tab identifies the page the shell is wrapped around.
type Tab string

const (
	TabHome      Tab = ""
	TabChat      Tab = "chat"
	TabCreate    Tab = "create"
	TabAssistant Tab = "assistant"
)

var titles = map[Tab]string{
	TabHome:      "AI Assistant",
	TabChat:      "Chat",
	TabCreate:    "Content Creation",
	TabAssistant: "Personal Assistant",
}

// ParseTab maps a route segment onto a Tab; unknown values mean home.
func ParseTab(s string) Tab {
	t := Tab(strings.ToLower(strings.Trim(s, "/ ")))
	if _, ok := titles[t]; ok {
		return t
	}
	return TabHome
}

// Title is the header title shown for the tab.
func (t Tab) Title() string {
	if title, ok := titles[t]; ok {
		return title
	}
	return titles[TabHome]
}

// Layout is the chrome state of one rendered page. It is built per request
// and passed down to whatever renders the page.
type Layout struct {
	ActiveTab   Tab    `json:"active_tab"`
	Title       string `json:"title"`
	SidebarOpen bool   `json:"sidebar_open"`
	Mobile      bool   `json:"mobile"`
}

// NewLayout opens the sidebar on desktop and closes it on mobile.
func NewLayout(tab Tab, mobile bool) Layout {
	return Layout{
		ActiveTab:   tab,
		Title:       tab.Title(),
		SidebarOpen: !mobile,
		Mobile:      mobile,
	}
}

// Toggled returns the layout with the sidebar flipped.
func (l Layout) Toggled() Layout {
	l.SidebarOpen = !l.SidebarOpen
	return l
}

// WithSidebar applies an explicit sidebar request: "open", "closed" or
// "toggle". Anything else keeps the current state.
func (l Layout) WithSidebar(action string) Layout {
	switch action {
	case "open":
		l.SidebarOpen = true
	case "closed":
		l.SidebarOpen = false
	case "toggle":
		return l.Toggled()
	}
	return l
}

// IsMobileUserAgent is a coarse check for phone browsers.
func IsMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	return strings.Contains(ua, "mobi") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone")
}

type NavItem struct {
	ID     Tab    `json:"id"`
	Name   string `json:"name"`
	Href   string `json:"href"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

type RecentChat struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type Feature struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Toast is a transient notice shown after an action completes.
type Toast struct {
	Title       string
	Description string
	Duration    time.Duration
}

type toastJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMS  int64  `json:"duration_ms"`
}

func (t Toast) MarshalJSON() ([]byte, error) {
	return json.Marshal(toastJSON{
		Title:       t.Title,
		Description: t.Description,
		DurationMS:  t.Duration.Milliseconds(),
	})
}

func (t *Toast) UnmarshalJSON(data []byte) error {
	var v toastJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Toast{
		Title:       v.Title,
		Description: v.Description,
		Duration:    time.Duration(v.DurationMS) * time.Millisecond,
	}
	return nil
}

var (
	ToastResponseComplete = Toast{
		Title:       "Response complete",
		Description: "The AI has finished generating a response.",
		Duration:    3 * time.Second,
	}
	ToastContentGenerated = Toast{
		Title:       "Content generated",
		Description: "Your content has been successfully created.",
		Duration:    3 * time.Second,
	}
	ToastCopied = Toast{
		Title:       "Copied to clipboard",
		Description: "Content has been copied to your clipboard.",
		Duration:    2 * time.Second,
	}
)

var (
	navItems = []NavItem{
		{ID: TabChat, Name: "Chat", Href: "/chat", Icon: "message-square"},
		{ID: TabCreate, Name: "Content Creation", Href: "/create", Icon: "file-text"},
		{ID: TabAssistant, Name: "Personal Assistant", Href: "/assistant", Icon: "calendar"},
	}

	RecentChats = []RecentChat{
		{ID: "chat1", Title: "Productivity tips", Date: "Today"},
		{ID: "chat2", Title: "Project planning", Date: "Yesterday"},
		{ID: "chat3", Title: "Content ideas", Date: "Mar 15"},
		{ID: "chat4", Title: "Technical questions", Date: "Mar 10"},
	}

	Features = []Feature{
		{Name: "Smart Responses", Icon: "sparkles"},
		{Name: "Real-Time Processing", Icon: "zap"},
		{Name: "Self-Learning", Icon: "brain"},
		{Name: "Secure Storage", Icon: "database"},
	}

	Notifications = []Notification{
		{Title: "New feature available", Description: "Try our new voice input feature"},
		{Title: "AI model updated", Description: "We've improved our AI capabilities"},
	}

	// HomeSuggestions are offered on the landing page.
	HomeSuggestions = []string{
		"How can I improve my productivity?",
		"Write a short story about AI",
		"Explain quantum computing",
		"Generate a weekly meal plan",
		"What are the latest AI trends?",
		"Help me draft an email to my team",
	}
)

// NavItems returns the main navigation with the active tab marked.
func NavItems(active Tab) []NavItem {
	items := make([]NavItem, len(navItems))
	copy(items, navItems)
	for i := range items {
		items[i].Active = items[i].ID == active
	}
	return items
}

// ChatSuggestions are the first four home suggestions, shown on the empty
// chat page.
func ChatSuggestions() []string {
	return HomeSuggestions[:4]
}
