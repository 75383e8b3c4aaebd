package session

import "errors"

// Validation and configuration failures. ErrUsernameRequired keeps the
// original user-facing wording.
var (
	ErrUsernameRequired      = errors.New("請輸入使用者名稱")
	ErrProviderNotConfigured = errors.New("identity provider not configured")
)

// Provider error codes, as surfaced by the identity collaborator.
const (
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeInvalidAPIKey       = "auth/invalid-api-key"
	CodeNetworkFailure      = "auth/network-request-failed"
	CodeTooManyRequests     = "auth/too-many-requests"
)

// AuthError is an identity-provider rejection carrying the provider's string
// code. It never affects already-loaded ledger state.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *AuthError) Unwrap() error { return e.Err }

func authErr(code string) *AuthError {
	return &AuthError{Code: code}
}

var userMessages = map[string]string{
	CodeInvalidCredential:   "帳號或密碼錯誤",
	CodeEmailAlreadyInUse:   "此 Email 已被註冊",
	CodeWeakPassword:        "密碼強度不足 (至少 6 位)",
	CodeInvalidEmail:        "Email 格式不正確",
	CodeOperationNotAllowed: "此登入方式未啟用",
	CodeInvalidAPIKey:       "服務設定錯誤",
	CodeNetworkFailure:      "網路連線失敗，請稍後再試",
	CodeTooManyRequests:     "嘗試次數過多，請稍後再試",
}

const defaultUserMessage = "發生錯誤，請稍後再試"

// UserMessage maps an error to the localized message shown by the UI.
func UserMessage(err error) string {
	if errors.Is(err, ErrUsernameRequired) {
		return ErrUsernameRequired.Error()
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		if msg, ok := userMessages[ae.Code]; ok {
			return msg
		}
	}
	return defaultUserMessage
}
