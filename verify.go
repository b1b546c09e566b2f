package csvlate

import (
	"context"
	"errors"
	"strings"
)

// VerifyClient checks a credential with one short translation request.
// It returns whether the service answered, a message for the user and the
// error behind a failed check, if any.
func VerifyClient(ctx context.Context, client Client) (bool, string, error) {
	if client == nil {
		return false, "API key not provided.", ErrNoCredential
	}

	res, err := client.Translate(ctx, Request{
		Text:       "Hello",
		TargetLang: "DE",
		SourceLang: SourceLang,
	})
	if err != nil {
		if errors.Is(err, ErrAuth) {
			return false, "API key invalid or authentication failed.", err
		}
		return false, "Unknown error: " + err.Error(), err
	}
	if strings.TrimSpace(res) == "" {
		return false, "API connection issue.", nil
	}
	return true, "API key is valid, successfully connected.", nil
}
