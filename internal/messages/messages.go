// Package messages holds the user-facing copy for fallbacks, loading
// failures and retry controls, with English and Vietnamese translations.
package messages

import (
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs.
const (
	LoadingNetwork = "loading.network"
	LoadingChunk   = "loading.chunk"
	LoadingTimeout = "loading.timeout"
	LoadingGeneric = "loading.generic"

	RetryAttempt   = "retry.attempt"
	RetryExhausted = "retry.exhausted"
	RetryWaiting   = "retry.waiting"
	AttemptsLeft   = "retry.attempts_left"

	FallbackAppTitle       = "fallback.app.title"
	FallbackAppBody        = "fallback.app.body"
	FallbackScreenTitle    = "fallback.screen.title"
	FallbackScreenBody     = "fallback.screen.body"
	FallbackComponentTitle = "fallback.component.title"
	FallbackComponentBody  = "fallback.component.body"

	ActionReload   = "action.reload"
	ActionGoHome   = "action.go_home"
	ActionSignIn   = "action.sign_in"
	ActionDetails  = "action.details"
	ActionTryAgain = "action.try_again"
)

var english = []*i18n.Message{
	{ID: LoadingNetwork, Other: "Network connection issue. Please check your internet connection and try again."},
	{ID: LoadingChunk, Other: "Failed to load application resources. This might be due to a recent update."},
	{ID: LoadingTimeout, Other: "The request timed out. Please try again."},
	{ID: LoadingGeneric, Other: "Something went wrong while loading. Please try again."},

	{ID: RetryAttempt, Other: "Try Again (Attempt {{.Attempt}}/{{.Max}})"},
	{ID: RetryExhausted, Other: "Maximum retries reached"},
	{ID: RetryWaiting, Other: "Retrying..."},
	{ID: AttemptsLeft, One: "{{.Count}} attempt left", Other: "{{.Count}} attempts left"},

	{ID: FallbackAppTitle, Other: "JuPay stopped working"},
	{ID: FallbackAppBody, Other: "An unexpected error occurred. Reload the application to continue."},
	{ID: FallbackScreenTitle, Other: "This screen could not be displayed"},
	{ID: FallbackScreenBody, Other: "Something went wrong on this screen. You can try again or return to safety."},
	{ID: FallbackComponentTitle, Other: "Part of this screen failed to load"},
	{ID: FallbackComponentBody, Other: "The rest of the app keeps working normally."},

	{ID: ActionReload, Other: "Reload app"},
	{ID: ActionGoHome, Other: "Go to dashboard"},
	{ID: ActionSignIn, Other: "Go to sign in"},
	{ID: ActionDetails, Other: "Technical details"},
	{ID: ActionTryAgain, Other: "Try again"},
}

var vietnamese = []*i18n.Message{
	{ID: LoadingNetwork, Other: "Lỗi kết nối mạng. Vui lòng kiểm tra kết nối internet và thử lại."},
	{ID: LoadingChunk, Other: "Không tải được tài nguyên ứng dụng. Có thể do bản cập nhật gần đây."},
	{ID: LoadingTimeout, Other: "Yêu cầu đã hết thời gian chờ. Vui lòng thử lại."},
	{ID: LoadingGeneric, Other: "Đã xảy ra lỗi khi tải. Vui lòng thử lại."},

	{ID: RetryAttempt, Other: "Thử lại (Lần {{.Attempt}}/{{.Max}})"},
	{ID: RetryExhausted, Other: "Đã đạt số lần thử tối đa"},
	{ID: RetryWaiting, Other: "Đang thử lại..."},
	{ID: AttemptsLeft, Other: "Còn {{.Count}} lần thử"},

	{ID: FallbackAppTitle, Other: "JuPay đã ngừng hoạt động"},
	{ID: FallbackAppBody, Other: "Đã xảy ra lỗi không mong muốn. Tải lại ứng dụng để tiếp tục."},
	{ID: FallbackScreenTitle, Other: "Không thể hiển thị màn hình này"},
	{ID: FallbackScreenBody, Other: "Màn hình này gặp sự cố. Bạn có thể thử lại hoặc quay về trang an toàn."},
	{ID: FallbackComponentTitle, Other: "Một phần màn hình không tải được"},
	{ID: FallbackComponentBody, Other: "Các phần còn lại vẫn hoạt động bình thường."},

	{ID: ActionReload, Other: "Tải lại ứng dụng"},
	{ID: ActionGoHome, Other: "Về trang chính"},
	{ID: ActionSignIn, Other: "Đăng nhập"},
	{ID: ActionDetails, Other: "Chi tiết kỹ thuật"},
	{ID: ActionTryAgain, Other: "Thử lại"},
}

// Catalog localizes message IDs for one language.
type Catalog struct {
	localizer *i18n.Localizer
}

// New returns a Catalog for lang (a BCP 47 tag such as "en" or "vi").
// Unknown languages fall back to English.
func New(lang string) *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.MustAddMessages(language.English, english...)
	bundle.MustAddMessages(language.Vietnamese, vietnamese...)
	return &Catalog{localizer: i18n.NewLocalizer(bundle, lang, "en")}
}

var defaultCatalog = New("en")

// Default returns the English catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Text returns the message for id, with optional template data. A missing
// message yields the id itself so the UI never renders empty.
func (c *Catalog) Text(id string, data map[string]any) string {
	s, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing message", "id", id, "error", err)
		return id
	}
	return s
}

// Count returns a pluralized message for id.
func (c *Catalog) Count(id string, n int) string {
	s, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	})
	if err != nil {
		slog.Warn("missing message", "id", id, "error", err)
		return id
	}
	return s
}
