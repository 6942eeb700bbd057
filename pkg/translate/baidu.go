// Package translate talks to third-party machine translation APIs.
package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrNotConfigured = errors.New("the translation service is not configured")
	ErrFailed        = errors.New("the translation service failed")
)

// Translator translates text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, dest string) (string, error)
}

// baiduCodes maps ISO codes to the ones the Baidu API expects; others pass through.
var baiduCodes = map[string]string{
	"es": "spa",
	"fr": "fra",
	"ko": "kor",
}

func baiduCode(lang string) string {
	if c, ok := baiduCodes[lang]; ok {
		return c
	}
	return lang
}

type Baidu struct {
	AppID    string
	Key      string
	Endpoint string
	Client   *http.Client

	// salt is replaceable in tests
	salt func() int
}

func NewBaidu(appID, key, endpoint string) *Baidu {
	return &Baidu{
		AppID:    appID,
		Key:      key,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Sign computes md5(appid + q + salt + key) as lowercase hex.
func (b *Baidu) Sign(text string, salt int) string {
	sum := md5.Sum([]byte(b.AppID + text + strconv.Itoa(salt) + b.Key))
	return hex.EncodeToString(sum[:])
}

func (b *Baidu) nextSalt() int {
	if b.salt != nil {
		return b.salt()
	}
	return 32768 + rand.Intn(65536-32768+1)
}

func (b *Baidu) Translate(ctx context.Context, text, source, dest string) (string, error) {
	if b == nil || b.AppID == "" || b.Key == "" {
		return "", ErrNotConfigured
	}
	salt := b.nextSalt()
	form := url.Values{}
	form.Set("q", text)
	form.Set("from", baiduCode(source))
	form.Set("to", baiduCode(dest))
	form.Set("appid", b.AppID)
	form.Set("salt", strconv.Itoa(salt))
	form.Set("sign", b.Sign(text, salt))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFailed, resp.StatusCode)
	}
	if code := gjson.GetBytes(body, "error_code"); code.Exists() && code.String() != "52000" {
		return "", fmt.Errorf("%w: %s %s", ErrFailed, code.String(), gjson.GetBytes(body, "error_msg").String())
	}
	dst := gjson.GetBytes(body, "trans_result.0.dst")
	if !dst.Exists() {
		return "", fmt.Errorf("%w: no result", ErrFailed)
	}
	return dst.String(), nil
}

var _ Translator = (*Baidu)(nil)
