package handlers

import (
	"net/http"

	"github.com/deepgram/assistant/internal/domain/shell"
	"github.com/deepgram/assistant/pkg/httpext"
)

// ShellResponse is everything the sidebar and header render.
type ShellResponse struct {
	Layout        shell.Layout         `json:"layout"`
	Navigation    []shell.NavItem      `json:"navigation"`
	RecentChats   []shell.RecentChat   `json:"recent_chats"`
	Features      []shell.Feature      `json:"features"`
	Notifications []shell.Notification `json:"notifications"`
	Suggestions   []string             `json:"suggestions"`
}

// BuildShell resolves the chrome for tab. sidebar may be "open", "closed"
// or "toggle"; anything else keeps the device default.
func BuildShell(tab shell.Tab, userAgent, sidebar string) ShellResponse {
	layout := shell.NewLayout(tab, shell.IsMobileUserAgent(userAgent)).WithSidebar(sidebar)

	suggestions := shell.HomeSuggestions
	if tab == shell.TabChat {
		suggestions = shell.ChatSuggestions()
	}

	return ShellResponse{
		Layout:        layout,
		Navigation:    shell.NavItems(tab),
		RecentChats:   shell.RecentChats,
		Features:      shell.Features,
		Notifications: shell.Notifications,
		Suggestions:   suggestions,
	}
}

func HandleShell(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	httpext.JsonResponse(w, http.StatusOK, BuildShell(shell.ParseTab(q.Get("tab")), r.UserAgent(), q.Get("sidebar")))
}
