package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestNewEncryptor_KeyLength(t *testing.T) {
	_, err := NewEncryptor([]byte("short"))
	assert.Error(t, err)

	enc, err := NewEncryptor(testKey())
	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey())
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple", plaintext: "hypertension, diabetes"},
		{name: "unicode", plaintext: "yüksek tansiyon, şeker hastalığı"},
		{name: "empty", plaintext: ""},
		{name: "long", plaintext: string(make([]byte, 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := enc.Encrypt(tt.plaintext)
			require.NoError(t, err)
			if tt.plaintext != "" {
				assert.NotEqual(t, tt.plaintext, ct)
			}

			pt, err := enc.Decrypt(ct)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, pt)
		})
	}
}

func TestEncryptor_NonceUniqueness(t *testing.T) {
	enc, err := NewEncryptor(testKey())
	require.NoError(t, err)

	a, err := enc.Encrypt("same input")
	require.NoError(t, err)
	b, err := enc.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEncryptor_WrongKeyFails(t *testing.T) {
	enc1, err := NewEncryptor(testKey())
	require.NoError(t, err)
	enc2, err := NewEncryptor([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	ct, err := enc1.Encrypt("secret")
	require.NoError(t, err)

	_, err = enc2.Decrypt(ct)
	assert.Error(t, err)
}

func TestEncryptor_Fields(t *testing.T) {
	enc, err := NewEncryptor(testKey())
	require.NoError(t, err)

	in := map[string]string{
		"important_diseases": "asthma",
		"medications":        "ventolin",
		"allergies":          "",
	}

	encrypted, err := enc.EncryptFields(in)
	require.NoError(t, err)
	assert.Len(t, encrypted, 3)
	assert.Empty(t, encrypted["allergies"])

	decrypted, err := enc.DecryptFields(encrypted)
	require.NoError(t, err)
	assert.Equal(t, in, decrypted)
}
