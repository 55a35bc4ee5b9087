package watsonx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAuthURL = "https://iam.cloud.ibm.com/identity/token"

// ensureToken returns a cached IAM access token, exchanging the API key for a
// fresh one when the cache is empty, stale, or force is set.
func (e *Engine) ensureToken(ctx context.Context, force bool) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !force && e.accessToken != "" && time.Now().Before(e.tokenExp.Add(-1*time.Minute)) {
		return e.accessToken, nil
	}

	form := url.Values{
		"grant_type": {"urn:ibm:params:oauth:grant-type:apikey"},
		"apikey":     {e.APIKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("iam token %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("iam token: empty access_token")
	}

	exp := time.Duration(out.ExpiresIn) * time.Second
	if exp <= 0 {
		exp = 55 * time.Minute
	}
	e.accessToken = out.AccessToken
	e.tokenExp = time.Now().Add(exp)
	return e.accessToken, nil
}
