package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:test-token"

// signInitData builds a query string signed the way the Telegram client
// does.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestValidateInitData(t *testing.T) {
	validFields := func() map[string]string {
		return map[string]string{
			"auth_date": fmt.Sprint(time.Now().Unix()),
			"query_id":  "AAH9mQEAAAAAAP2ZAQ",
			"user":      `{"id":99,"first_name":"Nikita","last_name":"P","username":"nikita"}`,
		}
	}

	t.Run("Valid", func(t *testing.T) {
		initData := signInitData(t, testBotToken, validFields())

		user, err := ValidateInitData(initData, testBotToken)

		require.NoError(t, err)
		assert.Equal(t, int64(99), user.ID)
		assert.Equal(t, "Nikita", user.FirstName)
		assert.Equal(t, "nikita", user.Username)
	})

	t.Run("WrongToken", func(t *testing.T) {
		initData := signInitData(t, "other-token", validFields())

		_, err := ValidateInitData(initData, testBotToken)

		assert.Equal(t, ErrInvalidInitData, err)
	})

	t.Run("TamperedUser", func(t *testing.T) {
		initData := signInitData(t, testBotToken, validFields())
		initData = strings.Replace(initData, "Nikita", "Mallory", 1)

		_, err := ValidateInitData(initData, testBotToken)

		assert.Equal(t, ErrInvalidInitData, err)
	})

	t.Run("MissingHash", func(t *testing.T) {
		_, err := ValidateInitData("auth_date=1&user=%7B%22id%22%3A1%7D", testBotToken)

		assert.Equal(t, ErrInvalidInitData, err)
	})

	t.Run("Expired", func(t *testing.T) {
		fields := validFields()
		fields["auth_date"] = fmt.Sprint(time.Now().Add(-48 * time.Hour).Unix())
		initData := signInitData(t, testBotToken, fields)

		_, err := ValidateInitData(initData, testBotToken)

		assert.Equal(t, ErrExpiredInitData, err)
	})

	t.Run("NoUser", func(t *testing.T) {
		fields := validFields()
		delete(fields, "user")
		initData := signInitData(t, testBotToken, fields)

		_, err := ValidateInitData(initData, testBotToken)

		assert.Equal(t, ErrNoInitDataUser, err)
	})
}
