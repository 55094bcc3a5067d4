package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func TestRedactForm(t *testing.T) {
	require.Equal(t,
		"username=alice&password=<redacted>&remember_me=1",
		redactForm("username=alice&password=hunter2&remember_me=1"),
	)
	require.Equal(t, "", redactForm(""))
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-B", "2")
	headers.Add("X-A", "1")
	headers.Add("Cookie", "session=abc")
	require.Equal(t, "Cookie: <redacted>\nX-A: 1\nX-B: 2", formatHeaders(headers))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	out, err := NewFilesystemOutput(dir)
	require.Nil(t, err)

	out.Write("1", "contents")
	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.Nil(t, err)
	require.Equal(t, "contents", string(contents))
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, nil, output)

	res, err := client.R().
		SetFormData(map[string]string{"password": "hunter2"}).
		Post(server.URL + "/ping")
	require.Nil(t, err)
	require.Equal(t, "pong", res.String())

	for _, message := range output.messages {
		require.False(t, strings.Contains(message, "hunter2"))
	}
}
