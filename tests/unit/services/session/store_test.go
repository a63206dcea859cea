package session_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-intel/console-service/internal/core/storage"
	"github.com/sri-intel/console-service/internal/domain/models"
	memorystorage "github.com/sri-intel/console-service/internal/infrastructure/storage/memory"
	"github.com/sri-intel/console-service/internal/pkg/encryption"
	"github.com/sri-intel/console-service/internal/services/session"
	"github.com/sri-intel/console-service/internal/services/upstream"
)

// newBackend wires an httptest server behind a real upstream client so the
// session store is exercised end to end, wire shapes included.
func newBackend(t *testing.T, handler http.Handler) upstream.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&upstream.ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func newSessionStore(t *testing.T, client upstream.Client) (*session.Store, *memorystorage.Store, *memorystorage.Store) {
	t.Helper()

	durable := memorystorage.NewStore()
	scoped := memorystorage.NewStore()

	store, err := session.NewStore(&session.Config{
		Upstream: client,
		Durable:  durable,
		Session:  scoped,
	})
	require.NoError(t, err)

	return store, durable, scoped
}

// generateTestKey returns a random base64-encoded 32-byte key.
func generateTestKey(t *testing.T) string {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

// loginBody decodes the login request body. Assertions inside handlers use
// assert rather than require; handlers run off the test goroutine.
func loginBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var body map[string]string
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewStore_NilConfig(t *testing.T) {
	store, err := session.NewStore(nil)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStore_Login_Success(t *testing.T) {
	// Arrange
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		body := loginBody(t, r)
		assert.Equal(t, "13800138000", body["username"])
		assert.Equal(t, "13800138000", body["phone"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","phone":"13800138000","role":"sales","dept":"华南战区"}}`))
	}))
	store, durable, scoped := newSessionStore(t, client)

	// Act
	user, err := store.Login(context.Background(), upstream.Credentials{
		Username: "13800138000",
		Password: "secret",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "张伟", user.Name)
	assert.Equal(t, "sales", user.Role)
	assert.Equal(t, "华南战区", user.Dept)

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, session.StateAuthenticated, store.State())
	assert.Equal(t, "tok1", store.Token())
	assert.Empty(t, store.Err())

	// Token and user made it into durable storage, the profile mirror into
	// session-scoped storage. The default encryptor is base64 passthrough.
	rawToken, err := durable.Get(context.Background(), storage.KeyToken)
	require.NoError(t, err)
	require.NotNil(t, rawToken)
	plain, err := encryption.NewNoOpEncryptor().DecryptString(string(rawToken))
	require.NoError(t, err)
	assert.Equal(t, "tok1", plain)

	rawMirror, err := scoped.Get(context.Background(), storage.KeyAuthUser)
	require.NoError(t, err)
	var mirrored models.User
	require.NoError(t, json.Unmarshal(rawMirror, &mirrored))
	assert.Equal(t, "张伟", mirrored.Name)
}

func TestStore_Login_LegacyResponseShape(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"legacy-tok","user":{"username":"wang.li","role":"director","emp_no":"E042"}}`))
	}))
	store, _, _ := newSessionStore(t, client)

	user, err := store.Login(context.Background(), upstream.Credentials{
		Username: "wang.li",
		Password: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "legacy-tok", store.Token())
	// Name falls back to username, dept to the default zone
	assert.Equal(t, "wang.li", user.Name)
	assert.Equal(t, models.DefaultDept, user.Dept)
	assert.Equal(t, "E042", user.EmpNo)
}

func TestStore_Login_RejectedCredentials(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"密码错误"}`))
	}))
	store, durable, _ := newSessionStore(t, client)

	user, err := store.Login(context.Background(), upstream.Credentials{
		Username: "13800138000",
		Password: "wrong",
	})

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Equal(t, session.StateAnonymous, store.State())
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Equal(t, "密码错误", store.Err())

	rawToken, err := durable.Get(context.Background(), storage.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, rawToken)
}

func TestStore_Login_ValidationDetailList(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"手机号格式错误"},{"msg":"密码不能为空"}]}`))
	}))
	store, _, _ := newSessionStore(t, client)

	_, err := store.Login(context.Background(), upstream.Credentials{
		Username: "bad",
		Password: "",
	})

	assert.Error(t, err)
	assert.Equal(t, "手机号格式错误; 密码不能为空", store.Err())
}

func TestStore_Login_TransportFailureYieldsGenericMessage(t *testing.T) {
	// Point at a closed server to force a connection error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := upstream.NewClient(&upstream.ClientConfig{BaseURL: server.URL})
	require.NoError(t, err)
	store, _, _ := newSessionStore(t, client)

	_, err = store.Login(context.Background(), upstream.Credentials{
		Username: "13800138000",
		Password: "secret",
	})

	assert.Error(t, err)
	assert.Equal(t, "登录失败，请检查网络连接", store.Err())
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestStore_Login_FailureThenSuccess(t *testing.T) {
	var calls int
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"密码错误"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok2","user":{"id":4,"name":"张伟","role":"sales"}}`))
	}))
	store, _, _ := newSessionStore(t, client)
	ctx := context.Background()
	creds := upstream.Credentials{Username: "13800138000", Password: "secret"}

	_, err := store.Login(ctx, creds)
	require.Error(t, err)
	assert.Equal(t, "密码错误", store.Err())

	user, err := store.Login(ctx, creds)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok2", store.Token())
	// A successful login clears the previous failure
	assert.Empty(t, store.Err())
}

func TestStore_Logout_ClearsEverything(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","role":"sales"}}`))
	}))
	store, durable, scoped := newSessionStore(t, client)
	ctx := context.Background()

	_, err := store.Login(ctx, upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	store.Logout(ctx)

	assert.Equal(t, session.StateAnonymous, store.State())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())

	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		raw, err := durable.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, raw, key)
	}
	raw, err := scoped.Get(ctx, storage.KeyAuthUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStore_HydratesFromDurableStorage(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","role":"sales"}}`))
	}))
	store, durable, _ := newSessionStore(t, client)
	ctx := context.Background()

	_, err := store.Login(ctx, upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	// A fresh store over the same durable storage comes up authenticated
	// without any network call.
	restarted, err := session.NewStore(&session.Config{
		Upstream: client,
		Durable:  durable,
		Session:  memorystorage.NewStore(),
	})
	require.NoError(t, err)

	assert.True(t, restarted.IsAuthenticated())
	assert.Equal(t, "tok1", restarted.Token())
	require.NotNil(t, restarted.User())
	assert.Equal(t, "张伟", restarted.User().Name)
}

func TestStore_Hydrate_UndecryptableTokenDropsSession(t *testing.T) {
	encryptor, err := encryption.NewAESEncryptor(generateTestKey(t))
	require.NoError(t, err)

	durable := memorystorage.NewStore()
	ctx := context.Background()
	// Plaintext garbage under the token key, as left behind by an older
	// build or a rotated encryption key.
	require.NoError(t, durable.Set(ctx, storage.KeyToken, []byte("not-ciphertext"), 0))
	require.NoError(t, durable.Set(ctx, storage.KeyUser, []byte("junk"), 0))

	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no backend call expected")
	}))
	store, err := session.NewStore(&session.Config{
		Upstream:  client,
		Durable:   durable,
		Session:   memorystorage.NewStore(),
		Encryptor: encryptor,
	})
	require.NoError(t, err)

	assert.False(t, store.IsAuthenticated())
	raw, err := durable.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStore_EncryptsSessionAtRest(t *testing.T) {
	encryptor, err := encryption.NewAESEncryptor(generateTestKey(t))
	require.NoError(t, err)

	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","role":"sales"}}`))
	}))

	durable := memorystorage.NewStore()
	store, err := session.NewStore(&session.Config{
		Upstream:  client,
		Durable:   durable,
		Session:   memorystorage.NewStore(),
		Encryptor: encryptor,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Login(ctx, upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	raw, err := durable.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.NotEqual(t, "tok1", string(raw))

	plain, err := encryptor.DecryptString(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "tok1", plain)
}

func TestStore_Restore_NoTokenIsNoOp(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no backend call expected")
	}))
	store, _, _ := newSessionStore(t, client)

	store.Restore(context.Background())

	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestStore_Restore_RefreshesProfile(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","role":"sales"}}`))
		case "/api/auth/me":
			assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":4,"name":"张伟","role":"director","dept":"华北战区"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	store, _, _ := newSessionStore(t, client)
	ctx := context.Background()

	_, err := store.Login(ctx, upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	store.Restore(ctx)

	assert.True(t, store.IsAuthenticated())
	require.NotNil(t, store.User())
	assert.Equal(t, "director", store.User().Role)
	assert.Equal(t, "华北战区", store.User().Dept)
}

func TestStore_Restore_InvalidTokenTriggersLogout(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/auth/login" {
			_, _ = w.Write([]byte(`{"access_token":"expired","user":{"id":4,"name":"张伟","role":"sales"}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token expired"}`))
	}))
	store, durable, _ := newSessionStore(t, client)
	ctx := context.Background()

	_, err := store.Login(ctx, upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	store.Restore(ctx)

	assert.Equal(t, session.StateAnonymous, store.State())
	assert.Empty(t, store.Token())
	raw, err := durable.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStore_OverlappingLogins_LastWriteWins(t *testing.T) {
	// Two logins race; the backend holds the first response until the
	// second has settled, so the first login's result lands last.
	firstArrived := make(chan struct{})
	firstMayRespond := make(chan struct{})
	var once sync.Once

	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := loginBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		if body["username"] == "a" {
			once.Do(func() { close(firstArrived) })
			<-firstMayRespond
			_, _ = w.Write([]byte(`{"access_token":"tok-first","user":{"id":1,"name":"first","role":"sales"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-second","user":{"id":2,"name":"second","role":"sales"}}`))
	}))
	store, _, _ := newSessionStore(t, client)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Login(ctx, upstream.Credentials{Username: "a", Password: "p"})
	}()
	<-firstArrived

	_, err := store.Login(ctx, upstream.Credentials{Username: "b", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "tok-second", store.Token())

	close(firstMayRespond)
	<-done

	// The later-settling call owns the session
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "tok-first", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, "first", store.User().Name)
}

func TestStore_User_ReturnsCopy(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok1","user":{"id":4,"name":"张伟","role":"sales"}}`))
	}))
	store, _, _ := newSessionStore(t, client)

	_, err := store.Login(context.Background(), upstream.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	leaked := store.User()
	leaked.Name = "tampered"

	assert.Equal(t, "张伟", store.User().Name)
}
