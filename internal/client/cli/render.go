package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/pulsechat/internal/client/live"
	"github.com/dmitrijs2005/pulsechat/internal/client/models"
	"github.com/dmitrijs2005/pulsechat/internal/client/notify"
	"github.com/dmitrijs2005/pulsechat/internal/client/views"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	minWidth     = 40
	// tailSize is how many messages the conversation pane shows; older ones
	// are summarised in a single line so the newest message is always visible.
	tailSize = 20
)

var (
	mutedColor = lipgloss.Color("#9ca3af")
	theirColor = lipgloss.Color("#374151")
	errorColor = lipgloss.Color("#ef4444")
	okColor    = lipgloss.Color("#10b981")

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// terminalWidth is a test seam for the width of the output terminal.
var terminalWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Renderer draws view state as styled text. It holds no state of its own
// besides the width and accent colour used for the current frame.
type Renderer struct {
	width  int
	accent lipgloss.Color
}

func newRenderer(themeColor string) *Renderer {
	w := terminalWidth()
	if w < minWidth {
		w = minWidth
	}
	if themeColor == "" {
		themeColor = models.DefaultThemeColor
	}
	return &Renderer{width: w, accent: lipgloss.Color(themeColor)}
}

// Header renders the top bar: brand on the left, the signed-in user (or the
// login/register links) on the right.
func (r *Renderer) Header(user *models.Profile) string {
	brand := lipgloss.NewStyle().Bold(true).Foreground(r.accent).Render("PulseChat")

	var right string
	if user != nil {
		right = fmt.Sprintf("%s  %s  %s",
			labelStyle.Render(user.Username),
			mutedStyle.Render(user.AvatarURL()),
			mutedStyle.Render("[logout]"))
	} else {
		right = mutedStyle.Render("[go /login]  [go /register]")
	}

	gap := r.width - lipgloss.Width(brand) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := brand + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(r.accent).
		Render(bar)
}

func (r *Renderer) Notices(ns []notify.Notice) string {
	if len(ns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(ns))
	for _, n := range ns {
		c := r.accent
		switch n.Kind {
		case notify.KindError:
			c = errorColor
		case notify.KindSuccess:
			c = okColor
		}
		tag := lipgloss.NewStyle().Foreground(c).Bold(true).Render(strings.ToUpper(n.Kind.String()))
		lines = append(lines, fmt.Sprintf("%s %s %s", tag, n.Text, mutedStyle.Render("(dismiss "+n.ID+")")))
	}
	return strings.Join(lines, "\n")
}

// Roster lists peers, marking the selected one.
func (r *Renderer) Roster(peers []models.Peer, selected int64) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Users"))
	b.WriteString("\n")
	if len(peers) == 0 {
		b.WriteString(mutedStyle.Render("  no other users"))
		return b.String()
	}
	sel := lipgloss.NewStyle().Foreground(r.accent).Bold(true)
	for _, p := range peers {
		line := fmt.Sprintf("  %d  %s", p.ID, p.Username)
		if p.ID == selected {
			line = sel.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Conversation renders the message pane. Own messages are right-aligned in
// the accent colour, the peer's are left-aligned.
func (r *Renderer) Conversation(phase views.Phase, peer models.Peer, msgs []models.Message, selfID int64, state live.State) string {
	switch phase {
	case views.PhaseNoPeer:
		return mutedStyle.Render("Select a user to start chatting (open <id>).")
	case views.PhaseLoading:
		return mutedStyle.Render(fmt.Sprintf("Loading conversation with %s...", peer.Username))
	}

	var b strings.Builder
	title := labelStyle.Render("Chat with " + peer.Username)
	b.WriteString(title + "  " + mutedStyle.Render("["+state.String()+"]") + "\n")

	if len(msgs) == 0 {
		b.WriteString(mutedStyle.Render("No messages yet."))
		return b.String()
	}

	if hidden := len(msgs) - tailSize; hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("... %d earlier messages", hidden)) + "\n")
		msgs = msgs[hidden:]
	}

	bubbleWidth := r.width * 2 / 3
	for _, m := range msgs {
		b.WriteString(r.bubble(m, m.IsMine(selfID), bubbleWidth))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) bubble(m models.Message, mine bool, maxWidth int) string {
	bg, align := theirColor, lipgloss.Left
	if mine {
		bg, align = r.accent, lipgloss.Right
	}

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(bg).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(m.Content)
	stamp := mutedStyle.Render(formatTime(m.CreatedAt))

	block := lipgloss.JoinVertical(align, body, stamp)
	return lipgloss.NewStyle().Width(r.width).Align(align).Render(block)
}

// formatTime shows timestamps in the local zone.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2 15:04")
}

// Profile renders the profile card. While editing, the draft is shown with
// field names that can be passed to "set".
func (r *Renderer) Profile(user *models.Profile, draft models.ProfileDraft, editing bool) string {
	if user == nil {
		return mutedStyle.Render("Profile not loaded.")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(r.accent).Render(user.Username))
	b.WriteString("  " + mutedStyle.Render(user.Email) + "\n")
	b.WriteString(mutedStyle.Render(user.AvatarURL()) + "\n")

	values := map[string]string{
		"avatar":      draft.Avatar,
		"bio":         draft.Bio,
		"location":    draft.Location,
		"interests":   draft.Interests,
		"website":     draft.Website,
		"theme_color": draft.ThemeColor,
	}
	for _, f := range views.ProfileFields {
		v := values[f]
		if v == "" {
			v = mutedStyle.Render("-")
		}
		b.WriteString(fmt.Sprintf("  %-12s %s\n", f, v))
	}

	if editing {
		b.WriteString(mutedStyle.Render("editing: set <field> <value>, save, cancel"))
	} else {
		b.WriteString(mutedStyle.Render("edit to change your profile"))
	}
	return b.String()
}
