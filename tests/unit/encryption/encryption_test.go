package encryption_test

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-intel/console-service/internal/pkg/encryption"
)

// generateTestKey returns a random base64-encoded 32-byte key.
func generateTestKey(t *testing.T) string {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func newEncryptor(t *testing.T) *encryption.AESEncryptor {
	t.Helper()

	encryptor, err := encryption.NewAESEncryptor(generateTestKey(t))
	require.NoError(t, err)
	return encryptor
}

func TestNewAESEncryptor_KeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{
			// Not valid base64, so the raw bytes are used as the key
			name:    "valid raw 32-byte key",
			key:     "!2345678901234567890123456789012",
			wantErr: false,
		},
		{
			name:    "valid base64 key",
			key:     base64.StdEncoding.EncodeToString(make([]byte, 32)),
			wantErr: false,
		},
		{
			name:    "too short",
			key:     "short",
			wantErr: true,
		},
		{
			name:    "empty",
			key:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encryptor, err := encryption.NewAESEncryptor(tt.key)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, encryptor)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, encryptor)
			}
		})
	}
}

func TestAESEncryptor_RoundTrip(t *testing.T) {
	encryptor := newEncryptor(t)

	plaintext := []byte(`{"id":4,"name":"张伟","role":"sales"}`)

	ciphertext, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), ciphertext)

	decrypted, err := encryptor.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESEncryptor_StringRoundTrip(t *testing.T) {
	encryptor := newEncryptor(t)

	ciphertext, err := encryptor.EncryptString("tok1")
	require.NoError(t, err)

	plain, err := encryptor.DecryptString(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "tok1", plain)
}

func TestAESEncryptor_UniqueNonces(t *testing.T) {
	encryptor := newEncryptor(t)

	first, err := encryptor.EncryptString("same input")
	require.NoError(t, err)
	second, err := encryptor.EncryptString("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESEncryptor_Decrypt_InvalidInput(t *testing.T) {
	encryptor := newEncryptor(t)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "not-valid-base64!!!"},
		{name: "too short", ciphertext: base64.StdEncoding.EncodeToString([]byte("x"))},
		{name: "tampered", ciphertext: base64.StdEncoding.EncodeToString(make([]byte, 64))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encryptor.Decrypt(tt.ciphertext)
			assert.Error(t, err)
		})
	}
}

func TestAESEncryptor_WrongKeyFailsToDecrypt(t *testing.T) {
	ciphertext, err := newEncryptor(t).EncryptString("secret")
	require.NoError(t, err)

	_, err = newEncryptor(t).DecryptString(ciphertext)
	assert.Error(t, err)
}

func TestNoOpEncryptor_RoundTrip(t *testing.T) {
	encryptor := encryption.NewNoOpEncryptor()

	ciphertext, err := encryptor.EncryptString("tok1")
	require.NoError(t, err)

	plain, err := encryptor.DecryptString(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "tok1", plain)
}

