package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaiduTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "hola", r.PostForm.Get("q"))
		assert.Equal(t, "spa", r.PostForm.Get("from"))
		assert.Equal(t, "en", r.PostForm.Get("to"))
		assert.Equal(t, "40000", r.PostForm.Get("salt"))
		b := &Baidu{AppID: "app", Key: "secret"}
		assert.Equal(t, b.Sign("hola", 40000), r.PostForm.Get("sign"))
		_, _ = w.Write([]byte(`{"from":"spa","to":"en","trans_result":[{"src":"hola","dst":"hello"}]}`))
	}))
	defer srv.Close()

	b := NewBaidu("app", "secret", srv.URL)
	b.salt = func() int { return 40000 }

	out, err := b.Translate(context.Background(), "hola", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestBaiduTranslateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":"54001","error_msg":"Invalid Sign"}`))
	}))
	defer srv.Close()

	_, err := NewBaidu("", "", srv.URL).Translate(context.Background(), "x", "en", "es")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewBaidu("app", "secret", srv.URL).Translate(context.Background(), "x", "en", "es")
	assert.ErrorIs(t, err, ErrFailed)
}

func TestSignAndCodes(t *testing.T) {
	b := &Baidu{AppID: "2015063000000001", Key: "12345678"}
	// example from the Baidu API documentation
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4", b.Sign("apple", 1435660288))
	assert.Equal(t, "kor", baiduCode("ko"))
	assert.Equal(t, "zh", baiduCode("zh"))

	salt := NewBaidu("a", "k", "").nextSalt()
	assert.GreaterOrEqual(t, salt, 32768)
	assert.LessOrEqual(t, salt, 65536)
}
