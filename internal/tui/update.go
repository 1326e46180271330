package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/auth"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/boundary"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

// MsgNavChanged indicates that the navigation coordinator changed state.
// It carries no data; Update re-reads the coordinator.
type MsgNavChanged struct{}

// MsgBoundaryChanged indicates that a loading boundary finished a backoff.
type MsgBoundaryChanged struct{}

// Init starts the cursor blink and the spinner.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width - 12
		m.DetailsViewport.Height = msg.Height / 3
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgNavChanged:
		m.syncNav()
		return m, nil

	case MsgBoundaryChanged:
		// The boundary already holds the new state; returning triggers a
		// fresh View.
		return m, nil

	case tea.KeyMsg:
		m.syncNav()
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		// The loading overlay swallows everything except cancel and quit.
		if m.NavState.IsLoading {
			switch msg.String() {
			case "esc":
				m.nav.CancelNavigation()
				m.syncNav()
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

		// After an app-level failure only a reload is offered.
		if _, failed := m.app.Fallback(); failed {
			switch msg.String() {
			case "R":
				m.reload()
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

		if m.screen.path == model.PathLogin {
			return m.updateLogin(msg)
		}
		return m.updateScreen(msg)
	}

	return m, cmd
}

// syncNav refreshes the navigation snapshot and remounts the screen when
// the route changed underneath it.
func (m *AppModel) syncNav() {
	m.NavState = m.nav.State()
	path := m.router.CurrentPath()
	if path == m.screen.path {
		return
	}
	m.remount(path)
	if path == model.PathLogin {
		m.resetLogin()
	}
}

func (m AppModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.toggleLoginFocus()
		return m, textinput.Blink
	case tea.KeyEsc:
		m.LoginErr = ""
		return m, nil
	case tea.KeyEnter:
		if m.PhoneInput.Focused() {
			m.toggleLoginFocus()
			return m, textinput.Blink
		}
		m.submitLogin()
		return m, nil
	}

	if m.PhoneInput.Focused() {
		m.PhoneInput, cmd = m.PhoneInput.Update(msg)
	} else {
		m.PinInput, cmd = m.PinInput.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) toggleLoginFocus() {
	if m.PhoneInput.Focused() {
		m.PhoneInput.Blur()
		m.PinInput.Focus()
	} else {
		m.PinInput.Blur()
		m.PhoneInput.Focus()
	}
}

func (m *AppModel) resetLogin() {
	m.PhoneInput.SetValue("")
	m.PinInput.SetValue("")
	m.PinInput.Blur()
	m.PhoneInput.Focus()
	m.LoginErr = ""
}

func (m *AppModel) submitLogin() {
	if m.deps.Auth == nil {
		m.LoginErr = "Sign-in is not available"
		return
	}
	phone := strings.TrimSpace(m.PhoneInput.Value())
	pin := strings.TrimSpace(m.PinInput.Value())
	if _, err := m.deps.Auth.Login(context.Background(), phone, pin); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPIN), errors.Is(err, auth.ErrInvalidCredentials):
			m.LoginErr = err.Error()
		default:
			m.LoginErr = "Sign-in failed, please try again"
			m.deps.Logger.Error("login failed", "error", err)
		}
		m.PinInput.SetValue("")
		return
	}
	m.LoginErr = ""
	m.nav.NavigateWithLoading(model.PathDashboard, "Signing in...")
	m.syncNav()
}

func (m AppModel) updateScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	// Menu shortcuts
	for _, r := range model.Routes {
		if key == r.Key {
			if r.Path != m.screen.path {
				m.nav.NavigateWithLoading(r.Path, r.Message)
				m.syncNav()
			}
			return m, nil
		}
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "b":
		m.nav.GoBack()
		m.syncNav()
	case "c":
		m.nav.ClearHistory()
		m.syncNav()
		m.Notice = "History cleared"
	case "o":
		m.logout()
	case "r":
		m.retry()
	case "s":
		m.goSafe()
	case "R":
		m.reload()
	case "t":
		m.ShowDetails = !m.ShowDetails
		m.DetailsViewport.GotoTop()
	case "!":
		m.faults.arm(faultScreen)
	case "@":
		m.faults.arm(faultChunk)
	case "#":
		m.faults.arm(faultTimeout)
	case "$":
		m.faults.arm(faultWidget)
	case "%":
		m.faults.arm(faultShell)
	case "up", "k":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
		}
	case "down", "j":
		if m.SelectedIdx < m.listLen()-1 {
			m.SelectedIdx++
		}
	case "enter":
		m.Notice = m.confirmSelection()
	case "pgup", "pgdown":
		if m.ShowDetails {
			m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
		}
	}
	return m, cmd
}

func (m *AppModel) logout() {
	if m.deps.Auth != nil {
		if err := m.deps.Auth.Logout(context.Background()); err != nil {
			m.deps.Logger.Error("logout failed", "error", err)
		}
	}
	m.nav.ClearHistory()
	m.nav.NavigateWithLoading(model.PathLogin, "Signing out...")
	m.syncNav()
}

// retry retries the innermost failed boundary of the current screen.
func (m *AppModel) retry() {
	if _, failed := m.screen.screen.Fallback(); failed {
		m.Notice = retryNotice(m.screen.screen.Retry(), "Retrying screen")
		return
	}
	if s := m.screen.loading.State(); s.HasLoadingError {
		delay, err := m.screen.loading.Retry()
		m.Notice = retryNotice(err, fmt.Sprintf("Retrying in %s", delay))
		return
	}
	if _, failed := m.screen.widget.Fallback(); failed {
		m.Notice = retryNotice(m.screen.widget.Retry(), "Retrying activity")
		return
	}
}

func retryNotice(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, boundary.ErrRetriesExhausted):
		return "No retries left, go to safety or reload"
	case errors.Is(err, boundary.ErrRetryPending):
		return "A retry is already scheduled"
	default:
		return err.Error()
	}
}

// goSafe leaves a failed screen for the safe path.
func (m *AppModel) goSafe() {
	if !m.screenFailed() {
		return
	}
	target := m.safePath()
	if target == m.screen.path {
		m.remount(target)
		return
	}
	m.nav.NavigateWithLoading(target, "")
	m.syncNav()
}

func (m AppModel) safePath() string {
	if m.authenticated() {
		return model.PathDashboard
	}
	return model.PathLogin
}

func (m AppModel) screenFailed() bool {
	if _, failed := m.screen.screen.Fallback(); failed {
		return true
	}
	if m.screen.loading.State().HasLoadingError {
		return true
	}
	_, failed := m.screen.widget.Fallback()
	return failed
}

func (m AppModel) listLen() int {
	switch m.screen.path {
	case model.PathPayments:
		return len(model.DemoContacts())
	case model.PathBillPay:
		return len(model.DemoBillers())
	case model.PathTopUp:
		return len(model.TopUpAmounts)
	}
	return 0
}

func (m AppModel) confirmSelection() string {
	i := m.SelectedIdx
	switch m.screen.path {
	case model.PathPayments:
		c := model.DemoContacts()[i]
		return fmt.Sprintf("Transfer to %s prepared (demo, nothing was sent)", c.Name)
	case model.PathBillPay:
		b := model.DemoBillers()[i]
		if b.Due == 0 {
			return fmt.Sprintf("%s has no outstanding bill", b.Name)
		}
		return fmt.Sprintf("Paid %s to %s (demo)", formatVND(b.Due), b.Name)
	case model.PathTopUp:
		return fmt.Sprintf("Top-up of %s requested (demo)", formatVND(model.TopUpAmounts[i]))
	}
	return ""
}
