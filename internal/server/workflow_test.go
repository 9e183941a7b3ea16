package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryShareWorkflow(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, stubPinger{}))
	defer srv.Close()
	client := &http.Client{Timeout: 10 * time.Second}

	// 1. login
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/login", bytes.NewBufferString(`{"key":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp struct {
		Token string `json:"token"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &loginResp))
	resp.Body.Close()
	authToken := loginResp.Token
	require.NotEmpty(t, authToken)

	do := func(method, path, contentType string, payload io.Reader) (*http.Response, []byte) {
		t.Helper()
		req, _ := http.NewRequest(method, srv.URL+path, payload)
		req.Header.Set("Authorization", "Bearer "+authToken)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, body
	}

	// 2. upload a PNG under a/b
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, _ := writer.CreateFormFile("file", "pic.png")
	_, _ = part.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x01, 0x02})
	_ = writer.WriteField("path", "a/b")
	writer.Close()

	resp, body = do(http.MethodPost, "/api/upload", writer.FormDataContentType(), &form)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var uploadResp struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(body, &uploadResp))
	assert.Regexp(t, regexp.MustCompile(`^a/b/\d{8}_[A-Za-z0-9]+\.png$`), uploadResp.Key)

	// 3. list it back
	resp, body = do(http.MethodGet, "/api/list?prefix=a/b/&page=1&pageSize=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listResp struct {
		Files []struct {
			Key  string `json:"key"`
			Size int64  `json:"size"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(body, &listResp))
	require.Len(t, listResp.Files, 1)
	assert.Equal(t, uploadResp.Key, listResp.Files[0].Key)
	assert.Equal(t, int64(10), listResp.Files[0].Size)

	// 4. share "a/" and browse b/ anonymously
	resp, body = do(http.MethodPost, "/api/share/create", "application/json", bytes.NewBufferString(`{"path":"a"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shareResp struct {
		ShareID string `json:"shareId"`
	}
	require.NoError(t, json.Unmarshal(body, &shareResp))

	anon, err := client.Get(srv.URL + "/api/s/" + shareResp.ShareID + "/list?prefix=b/")
	require.NoError(t, err)
	anonBody, _ := io.ReadAll(anon.Body)
	anon.Body.Close()
	require.Equal(t, http.StatusOK, anon.StatusCode)
	assert.Contains(t, string(anonBody), uploadResp.Key)

	// 5. delete the object, then revoke the share
	resp, _ = do(http.MethodPost, "/api/delete", "application/json", bytes.NewBufferString(`{"keys":["`+uploadResp.Key+`"]}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(http.MethodPost, "/api/share/delete", "application/json", bytes.NewBufferString(`{"shareId":"`+shareResp.ShareID+`"}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	anon, err = client.Get(srv.URL + "/api/s/" + shareResp.ShareID + "/list")
	require.NoError(t, err)
	anon.Body.Close()
	assert.Equal(t, http.StatusNotFound, anon.StatusCode)
}
