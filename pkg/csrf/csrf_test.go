package csrf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogkit/pkg/csrf"
)

func TestGenerate(t *testing.T) {
	t.Run("creates a 64 char hex token once per session", func(t *testing.T) {
		sess := csrf.NewMemorySession()

		first, err := csrf.Generate(sess)
		require.NoError(t, err)
		assert.Len(t, first, 64)
		assert.Regexp(t, `^[0-9a-f]+$`, first)

		second, err := csrf.Generate(sess)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("different sessions get different tokens", func(t *testing.T) {
		a, err := csrf.Generate(csrf.NewMemorySession())
		require.NoError(t, err)
		b, err := csrf.Generate(csrf.NewMemorySession())
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("nil session", func(t *testing.T) {
		_, err := csrf.Generate(nil)
		assert.ErrorIs(t, err, csrf.ErrNilSession)
	})
}

func TestValidate(t *testing.T) {
	sess := csrf.NewMemorySession()

	assert.False(t, csrf.Validate(sess, ""), "no token issued yet")
	assert.False(t, csrf.Validate(nil, "x"))

	tok, err := csrf.Generate(sess)
	require.NoError(t, err)

	assert.True(t, csrf.Validate(sess, tok))
	assert.False(t, csrf.Validate(sess, tok[:63]))
	assert.False(t, csrf.Validate(sess, tok+"0"))
	assert.False(t, csrf.Validate(sess, ""))

	t.Run("non-string session value is ignored", func(t *testing.T) {
		other := csrf.NewMemorySession()
		other.Set(csrf.SessionKey, 42)
		assert.False(t, csrf.Validate(other, "42"))
	})
}
