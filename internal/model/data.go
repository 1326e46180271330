package model

import "time"

// Account is the signed-in user's wallet.
type Account struct {
	Name     string
	Phone    string
	Email    string
	Balance  float64
	Currency string
	Tier     string
}

// Transaction is one wallet movement.
type Transaction struct {
	ID     string
	Title  string
	Amount float64 // Negative for debits
	At     time.Time
	Status string
}

// Biller is a company that accepts bill payments.
type Biller struct {
	ID       string
	Name     string
	Category string
	Due      float64
}

// Contact is a payee for peer payments.
type Contact struct {
	Name  string
	Phone string
}

// DemoAccount returns the mock wallet shown after login.
func DemoAccount() Account {
	return Account{
		Name:     "Alex Tan",
		Phone:    "0901234567",
		Email:    "alex.tan@jupay.demo",
		Balance:  2450000,
		Currency: "VND",
		Tier:     "Gold",
	}
}

// DemoTransactions returns recent transactions, newest first.
func DemoTransactions(now time.Time) []Transaction {
	day := 24 * time.Hour
	return []Transaction{
		{"TX1042", "Top up from bank", 500000, now.Add(-2 * time.Hour), "completed"},
		{"TX1041", "Electricity - EVN", -412000, now.Add(-day), "completed"},
		{"TX1040", "Transfer to Minh", -150000, now.Add(-2 * day), "completed"},
		{"TX1039", "Coffee House", -55000, now.Add(-3 * day), "completed"},
		{"TX1038", "Refund - Tiki", 239000, now.Add(-5 * day), "pending"},
	}
}

// DemoBillers returns the bill-pay catalog.
func DemoBillers() []Biller {
	return []Biller{
		{"EVN", "Electricity - EVN", "Utilities", 412000},
		{"SAWACO", "Water - SAWACO", "Utilities", 98000},
		{"VNPT", "Internet - VNPT", "Telecom", 220000},
		{"FPT", "TV - FPT Play", "Entertainment", 0},
	}
}

// DemoContacts returns recent payees.
func DemoContacts() []Contact {
	return []Contact{
		{"Minh Nguyen", "0912000111"},
		{"Lan Pham", "0933222444"},
		{"Huy Tran", "0977555666"},
	}
}

// TopUpAmounts are the quick-pick top-up denominations.
var TopUpAmounts = []float64{50000, 100000, 200000, 500000, 1000000}
