package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/auth"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/boundary"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
)

func (m AppModel) account() model.Account {
	if m.deps.Auth != nil {
		return m.deps.Auth.Account()
	}
	return model.DemoAccount()
}

func (m AppModel) renderLogin() string {
	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconLock + " Sign in to JuPay"))
	b.WriteString("\n\n")
	b.WriteString("Phone  " + m.PhoneInput.View())
	b.WriteString("\n")
	b.WriteString("PIN    " + m.PinInput.View())
	b.WriteString("\n\n")
	if m.LoginErr != "" {
		b.WriteString(debitStyle.Render(m.LoginErr))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Demo account: %s / %s", auth.DemoPhone, auth.DemoPIN)))
	return panelStyle.Render(b.String())
}

func (m AppModel) renderDashboard() string {
	acc := m.account()

	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconHome + " Dashboard"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Balance  %s\n", menuActiveStyle.Render(formatVND(acc.Balance)))
	fmt.Fprintf(&b, "Tier     %s\n\n", acc.Tier)

	// The activity list sits in its own component boundary so a failure
	// there leaves the balance visible.
	var activity string
	info := boundary.Info{ComponentStack: "App > Dashboard > RecentActivity", Path: m.screen.path}
	fb, failed := m.screen.widget.Guard(info, func() {
		activity = m.renderActivity()
	})
	if failed {
		activity = m.renderBoundaryFallback(fb)
	}
	b.WriteString(activity)
	return panelStyle.Render(b.String())
}

func (m AppModel) renderActivity() string {
	m.faults.raise(faultWidget)

	var b strings.Builder
	b.WriteString("Recent activity\n")
	for _, tx := range model.DemoTransactions(m.deps.Clock.Now()) {
		icon, style := model.IconCredit, creditStyle
		if tx.Amount < 0 {
			icon, style = model.IconDebit, debitStyle
		}
		line := fmt.Sprintf("%s %-22s %14s  %s", icon, tx.Title, formatVND(tx.Amount), tx.At.Format("02 Jan 15:04"))
		if tx.Status != "completed" {
			line += " (" + tx.Status + ")"
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderPayments() string {
	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconSend + " Send money"))
	b.WriteString("\n\n")
	for i, c := range model.DemoContacts() {
		b.WriteString(m.listLine(i, fmt.Sprintf("%-14s %s", c.Name, c.Phone)))
	}
	return panelStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m AppModel) renderBillPay() string {
	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconBill + " Pay bills"))
	b.WriteString("\n\n")
	for i, biller := range model.DemoBillers() {
		due := "no bill due"
		if biller.Due > 0 {
			due = formatVND(biller.Due)
		}
		b.WriteString(m.listLine(i, fmt.Sprintf("%-20s %-14s %s", biller.Name, biller.Category, due)))
	}
	return panelStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m AppModel) renderTopUp() string {
	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconTopUp + " Top up"))
	b.WriteString("\n\n")
	for i, amount := range model.TopUpAmounts {
		b.WriteString(m.listLine(i, formatVND(amount)))
	}
	return panelStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m AppModel) renderProfile() string {
	acc := m.account()
	var b strings.Builder
	b.WriteString(menuActiveStyle.Render(model.IconProfile + " Profile"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Name   %s\n", acc.Name)
	fmt.Fprintf(&b, "Phone  %s\n", acc.Phone)
	fmt.Fprintf(&b, "Email  %s\n", acc.Email)
	fmt.Fprintf(&b, "Tier   %s", acc.Tier)
	return panelStyle.Render(b.String())
}

func (m AppModel) listLine(i int, text string) string {
	if i == m.SelectedIdx {
		return selectedStyle.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

// formatVND formats an amount with dot thousands separators, e.g.
// "2.450.000 ₫". Negative amounts keep their sign.
func formatVND(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(int64(amount+0.5), 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " ₫"
}
