package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/boundary"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/messages"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	menuActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")) // Pinkish

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Grey

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	panelStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))

	overlayStyle = lipgloss.NewStyle().
			Padding(1, 4).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	creditStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	debitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	// Fallback tiers, loudest first
	appFallbackStyle = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("196"))

	screenFallbackStyle = lipgloss.NewStyle().
				Padding(1, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("208"))

	componentFallbackStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Foreground(lipgloss.Color("245"))

	fallbackTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// View renders the whole application inside the app-level boundary.
func (m AppModel) View() string {
	var out string
	fb, failed := m.app.Guard(boundary.Info{ComponentStack: "App", Path: m.screen.path}, func() {
		out = m.renderShell()
	})
	if failed {
		return m.renderAppFallback(fb)
	}
	return out
}

func (m AppModel) renderShell() string {
	m.faults.raise(faultShell)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.NavState.IsLoading {
		b.WriteString(m.renderOverlay())
	} else {
		b.WriteString(m.renderScreen())
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m AppModel) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("JuPay " + model.Version))

	if m.screen.path == model.PathLogin {
		return b.String()
	}

	if m.deps.Auth != nil {
		if s := m.deps.Auth.Current(); s != nil {
			b.WriteString("  ")
			b.WriteString(dimStyle.Render(s.Name + " · " + s.Phone))
		}
	}
	b.WriteString("\n")

	items := make([]string, 0, len(model.Routes))
	for _, r := range model.Routes {
		label := fmt.Sprintf("[%s] %s %s", r.Key, r.Icon, r.Title)
		if r.Path == m.screen.path {
			items = append(items, menuActiveStyle.Render(label))
		} else {
			items = append(items, menuStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(items, "  "))
	return b.String()
}

// renderOverlay is the loading screen shown for the whole navigation delay.
func (m AppModel) renderOverlay() string {
	msg := m.NavState.LoadingMessage
	if msg == "" {
		msg = "Loading..."
	}
	body := fmt.Sprintf("%s %s\n\n%s", m.Spinner.View(), msg, dimStyle.Render("esc to cancel"))
	return overlayStyle.Render(body)
}

// renderScreen renders the current screen: a screen-level boundary around
// a loading boundary around the screen body.
func (m AppModel) renderScreen() string {
	path := m.screen.path
	title := screenTitle(path)
	info := boundary.Info{ComponentStack: "App > " + title, Path: path}

	var body string
	fb, failed := m.screen.screen.Guard(info, func() {
		s, loadFailed := m.screen.loading.Guard(info, func() {
			body = m.renderBody(path)
		})
		if loadFailed {
			body = m.renderLoadingFallback(s)
		}
	})
	if failed {
		return m.renderBoundaryFallback(fb)
	}
	return body
}

func screenTitle(path string) string {
	if r, ok := model.RouteFor(path); ok {
		return r.Title
	}
	return path
}

func (m AppModel) renderBody(path string) string {
	m.faults.raise(faultScreen)
	m.faults.raise(faultChunk)
	m.faults.raise(faultTimeout)

	switch path {
	case model.PathLogin:
		return m.renderLogin()
	case model.PathDashboard:
		return m.renderDashboard()
	case model.PathPayments:
		return m.renderPayments()
	case model.PathBillPay:
		return m.renderBillPay()
	case model.PathTopUp:
		return m.renderTopUp()
	case model.PathProfile:
		return m.renderProfile()
	}
	panic(fmt.Errorf("no screen registered for %s", path))
}

func (m AppModel) renderFooter() string {
	var b strings.Builder

	if m.Notice != "" {
		b.WriteString(noticeStyle.Render(m.Notice))
		b.WriteString("\n")
	}

	if h := m.NavState.History; len(h) > 0 {
		b.WriteString(dimStyle.Render("History: " + strings.Join(h, " › ")))
		b.WriteString("\n")
	}

	var help string
	switch {
	case m.NavState.IsLoading:
		help = "esc cancel • q quit"
	case m.screen.path == model.PathLogin:
		help = "tab switch field • enter sign in • ctrl+c quit"
	default:
		help = "1-5 menu • b back • c clear history • ↑/↓ select • enter confirm • o sign out • q quit\n" +
			"r retry • s safety • R reload • t details • !/@/# fail screen/chunk/timeout • $ fail widget • % fail app"
	}
	b.WriteString(dimStyle.Render(help))
	return b.String()
}

// Fallbacks

func (m AppModel) text(id string) string {
	return m.deps.Catalog.Text(id, nil)
}

func (m AppModel) renderAppFallback(fb boundary.Fallback) string {
	var b strings.Builder
	b.WriteString(fallbackTitleStyle.Render(model.IconFatal + " " + m.text(messages.FallbackAppTitle)))
	b.WriteString("\n\n")
	b.WriteString(m.text(messages.FallbackAppBody))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("[R]") + " " + m.text(messages.ActionReload))
	b.WriteString("   ")
	b.WriteString(keyStyle.Render("[q]") + " Quit")
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Error ID: " + fb.Record.ID))
	return appFallbackStyle.Render(b.String())
}

func (m AppModel) renderBoundaryFallback(fb boundary.Fallback) string {
	var b strings.Builder
	titleID, bodyID, style := messages.FallbackScreenTitle, messages.FallbackScreenBody, screenFallbackStyle
	if fb.Kind == boundary.FallbackComponent {
		titleID, bodyID, style = messages.FallbackComponentTitle, messages.FallbackComponentBody, componentFallbackStyle
	}

	b.WriteString(fallbackTitleStyle.Render(model.IconWarning + " " + m.text(titleID)))
	b.WriteString("\n")
	b.WriteString(m.text(bodyID))
	b.WriteString("\n\n")
	b.WriteString(m.renderActions(fb.CanRetry, m.retryLabel(fb), fb.SafePath))
	if m.ShowDetails && fb.ShowDetails {
		b.WriteString("\n\n")
		b.WriteString(m.renderDetails(fb.Record))
	}
	return style.Render(b.String())
}

func (m AppModel) retryLabel(fb boundary.Fallback) string {
	if !fb.CanRetry {
		return m.text(messages.RetryExhausted)
	}
	return m.text(messages.ActionTryAgain) + " (" + m.deps.Catalog.Count(messages.AttemptsLeft, fb.AttemptsLeft) + ")"
}

func (m AppModel) renderLoadingFallback(s boundary.LoadingState) string {
	var b strings.Builder
	b.WriteString(fallbackTitleStyle.Render(model.IconWarning + " " + s.Message))
	b.WriteString("\n\n")

	label := s.RetryLabel
	if s.Retrying {
		label = m.Spinner.View() + " " + m.text(messages.RetryWaiting)
	}
	b.WriteString(m.renderActions(s.CanRetry, label, m.safePath()))
	if m.ShowDetails {
		b.WriteString("\n\n")
		b.WriteString(m.renderDetails(s.Record))
	}
	return screenFallbackStyle.Render(b.String())
}

func (m AppModel) renderActions(canRetry bool, retryLabel, safePath string) string {
	var parts []string
	if canRetry {
		parts = append(parts, keyStyle.Render("[r]")+" "+retryLabel)
	} else {
		parts = append(parts, dimStyle.Render(retryLabel))
	}
	safe := m.text(messages.ActionGoHome)
	if safePath == model.PathLogin {
		safe = m.text(messages.ActionSignIn)
	}
	parts = append(parts, keyStyle.Render("[s]")+" "+safe)
	parts = append(parts, keyStyle.Render("[t]")+" "+m.text(messages.ActionDetails))
	return strings.Join(parts, "   ")
}

func (m AppModel) renderDetails(rec model.ErrorRecord) string {
	var d strings.Builder
	fmt.Fprintf(&d, "%s: %s\n", rec.Name, rec.Message)
	fmt.Fprintf(&d, "ID: %s  Severity: %s  Retries: %d\n", rec.ID, rec.Severity, rec.RetryCount)
	if rec.ComponentStack != "" {
		fmt.Fprintf(&d, "Component: %s\n", rec.ComponentStack)
	}
	if rec.Stack != "" {
		d.WriteString("\n")
		d.WriteString(rec.Stack)
	}

	vp := m.DetailsViewport
	vp.SetContent(d.String())
	return panelStyle.Render(vp.View())
}
