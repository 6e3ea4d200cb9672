package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// initData validation errors
var (
	ErrInitDataInvalid = errors.New("init data signature mismatch")
	ErrInitDataExpired = errors.New("init data expired")
	ErrInitDataNoUser  = errors.New("init data has no user")
)

// MaxInitDataAge bounds how long a signed initData blob stays acceptable.
const MaxInitDataAge = 24 * time.Hour

// WebAppUser is the user object embedded in Telegram Mini App initData.
type WebAppUser struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
}

// ValidateInitData verifies a raw initData query string against the bot
// token per the Telegram WebApp scheme: the signing secret is
// HMAC_SHA256("WebAppData", botToken) and the signature covers the
// newline-joined, key-sorted "k=v" pairs excluding hash itself.
func ValidateInitData(raw, botToken string, now time.Time) (*WebAppUser, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrInitDataInvalid
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, ErrInitDataInvalid
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse auth_date: %w", err)
		}
		if now.Sub(time.Unix(ts, 0)) > MaxInitDataAge {
			return nil, ErrInitDataExpired
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrInitDataNoUser
	}
	var user WebAppUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("parse init data user: %w", err)
	}
	if user.ID == 0 {
		return nil, ErrInitDataNoUser
	}
	return &user, nil
}

// SignInitData produces a signed initData string for the given values. Used
// by tests and local tooling; the production flow only ever validates.
func SignInitData(values url.Values, botToken string) string {
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}
