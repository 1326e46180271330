package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	svc, err := NewService(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if svc.Authenticated() {
		t.Fatal("authenticated before login")
	}

	tests := []struct {
		phone, pin string
		want       error
	}{
		{DemoPhone, "12345", ErrInvalidPIN},
		{DemoPhone, "12a456", ErrInvalidPIN},
		{"0999999999", DemoPIN, ErrInvalidCredentials},
		{DemoPhone, "654321", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		if _, err := svc.Login(ctx, tt.phone, tt.pin); !errors.Is(err, tt.want) {
			t.Errorf("Login(%q, %q) = %v, want %v", tt.phone, tt.pin, err, tt.want)
		}
	}

	sess, err := svc.Login(ctx, " "+DemoPhone+" ", DemoPIN)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" || sess.Name == "" {
		t.Errorf("session = %+v", sess)
	}
	if !svc.Authenticated() {
		t.Error("not authenticated after login")
	}

	// A new service over the same store restores the session.
	restored, err := NewService(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if cur := restored.Current(); cur == nil || cur.Token != sess.Token {
		t.Errorf("restored session = %+v", cur)
	}

	if err := restored.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	again, _ := NewService(ctx, s)
	if again.Authenticated() {
		t.Error("session survived logout")
	}
}
