package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
)

const testToken = "test-jwt-token"

func storeWith(t *testing.T, rec *credstore.Record) credstore.Store {
	t.Helper()
	store := credstore.NewMemory()
	if rec != nil {
		require.NoError(t, store.Set(rec))
	}
	return store
}

func TestClient_GetJSON_BearerAndRequestID(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodGet, r.Method)
		assert.Equal("/api/recipes", r.URL.Path)
		assert.Equal("2", r.URL.Query().Get("page"))
		assert.Equal("Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal("application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(err, "X-Request-ID must be a uuid")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client := api.New(server.URL+"/", storeWith(t, &credstore.Record{Token: testToken}))

	var out struct {
		Value string `json:"value"`
	}
	err := client.GetJSON(context.Background(), "/api/recipes", map[string][]string{"page": {"2"}}, &out)
	require.NoError(err)
	assert.Equal("ok", out.Value)
	assert.Equal(server.URL, client.BaseURL())
}

func TestClient_RequestIDsAreUnique(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen[r.Header.Get("X-Request-ID")] = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := api.New(server.URL, nil)
	for range 3 {
		require.NoError(t, client.Delete(context.Background(), "/api/recipes/1"))
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 3)
}

func TestClient_BasicMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "gooduser", user)
		assert.Equal(t, "secret", pass)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := api.New(server.URL,
		storeWith(t, &credstore.Record{Username: "gooduser", Password: "secret", Token: "ignored"}),
		api.WithAuthMode(api.AuthBasic))
	require.NoError(t, client.GetJSON(context.Background(), "/api/auth/me", nil, nil))
	assert.Equal(t, api.AuthBasic, client.AuthMode())
}

func TestClient_CredentialsOverrideAndAnonymous(t *testing.T) {
	var mu sync.Mutex
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := api.New(server.URL, storeWith(t, &credstore.Record{Token: testToken}))
	ctx := context.Background()

	require.NoError(t, client.Do(ctx, api.Request{
		Method: http.MethodPost, Path: "/api/auth/login", Anonymous: true,
	}, nil))
	require.NoError(t, client.Do(ctx, api.Request{
		Method: http.MethodPost, Path: "/api/auth/login",
		Credentials: &api.Credentials{Username: "a", Password: "b"},
	}, nil))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[0])
	assert.True(t, strings.HasPrefix(gotAuth[1], "Basic "))
}

func TestClient_RequireAuthWithoutCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		assert.Fail(t, "request must not reach the server")
	}))
	defer server.Close()

	client := api.New(server.URL, credstore.NewMemory())
	err := client.Do(context.Background(), api.Request{
		Method: http.MethodGet, Path: "/api/recipes/my-recipes", RequireAuth: true,
	}, nil)
	require.ErrorIs(t, err, api.ErrNoCredentials)
}

func TestClient_PostJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "gooduser", in["username"])
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "abc"})
	}))
	defer server.Close()

	client := api.New(server.URL, nil)
	var out map[string]string
	err := client.PostJSON(context.Background(), "/api/auth/login", map[string]string{"username": "gooduser"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out["token"])
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		sentinel    error
		wantMessage string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: api.ErrAuthorization},
		{name: "forbidden", status: http.StatusForbidden, body: `{"message":"Admins only"}`,
			sentinel: api.ErrForbidden, wantMessage: "Admins only"},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"Recipe not found"}`,
			sentinel: api.ErrNotFound, wantMessage: "Recipe not found"},
		{name: "validation message", status: http.StatusBadRequest, body: `{"message":"Title is required"}`,
			wantMessage: "Title is required"},
		{name: "plain text body", status: http.StatusConflict, body: "Username is already taken!\n",
			wantMessage: "Username is already taken!"},
		{name: "unknown json", status: http.StatusInternalServerError, body: `{"timestamp":"now"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := api.New(server.URL, nil)
			err := client.GetJSON(context.Background(), "/api/recipes/1", nil, nil)
			require.Error(t, err)
			if tt.sentinel != nil {
				require.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, tt.status, api.StatusCode(err))

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, api.Message(err))
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	err := api.New(url, nil).GetJSON(context.Background(), "/api/recipes", nil, nil)
	require.Error(t, err)
	assert.Zero(t, api.StatusCode(err))
}

func TestClient_Multipart(t *testing.T) {
	tests := []struct {
		name      string
		file      *api.File
		wantImage bool
	}{
		{name: "with image", file: &api.File{Name: "/tmp/pic.png", ContentType: "image/png",
			Content: strings.NewReader("PNGDATA")}, wantImage: true},
		{name: "without image", file: nil, wantImage: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				parts := readParts(t, r)

				recipe, ok := parts["recipe"]
				assert.True(t, ok)
				assert.Equal(t, "application/json", recipe.contentType)
				assert.JSONEq(t, `{"title":"Soup"}`, recipe.data)

				image, ok := parts["image"]
				assert.Equal(t, tt.wantImage, ok)
				if tt.wantImage {
					assert.Equal(t, "pic.png", image.filename)
					assert.Equal(t, "image/png", image.contentType)
					assert.Equal(t, "PNGDATA", image.data)
				}
				_, _ = w.Write([]byte(`{"id":5}`))
			}))
			defer server.Close()

			client := api.New(server.URL, nil)
			var out struct {
				ID int64 `json:"id"`
			}
			err := client.PutMultipart(context.Background(), "/api/recipes/5", &api.Multipart{
				JSONField: "recipe",
				JSON:      map[string]string{"title": "Soup"},
				FileField: "image",
				File:      tt.file,
			}, &out)
			require.NoError(t, err)
			assert.Equal(t, int64(5), out.ID)
		})
	}
}

type part struct {
	filename    string
	contentType string
	data        string
}

func readParts(t *testing.T, r *http.Request) map[string]part {
	t.Helper()
	reader, err := r.MultipartReader()
	if !assert.NoError(t, err) {
		return nil
	}
	parts := map[string]part{}
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			return parts
		}
		if !assert.NoError(t, err) {
			return parts
		}
		data, _ := io.ReadAll(p)
		parts[p.FormName()] = part{
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			data:        string(data),
		}
	}
}

func TestClient_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/uploads/pic.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer server.Close()

	body, contentType, err := api.New(server.URL, nil).Download(context.Background(), "/api/uploads/pic.png")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
	assert.Equal(t, "image/png", contentType)
}

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		in      string
		want    api.AuthMode
		wantErr bool
	}{
		{in: "", want: api.AuthBearer},
		{in: "token", want: api.AuthBearer},
		{in: "Bearer", want: api.AuthBearer},
		{in: "basic", want: api.AuthBasic},
		{in: "cookie", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := api.ParseAuthMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
