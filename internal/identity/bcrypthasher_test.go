package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := BcryptHasher{}

	t.Run("hash and compare ok", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")

		require.NoError(t, err)
		require.NotEmpty(t, hash)
		require.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
	})

	t.Run("compare fails on wrong password", func(t *testing.T) {
		hash, err := hasher.Hash("password-one")
		require.NoError(t, err)

		require.Error(t, hasher.Compare(hash, "password-two"))
	})

	t.Run("long passwords not truncated", func(t *testing.T) {
		// bcrypt alone ignores everything after 72 bytes,
		// the sha256 prehash must keep long passwords distinct
		long := strings.Repeat("a", 72)
		hash, err := hasher.Hash(long + "-first")
		require.NoError(t, err)

		require.Error(t, hasher.Compare(hash, long+"-second"))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("pwd-123")
		require.NoError(t, err)
		second, err := hasher.Hash("pwd-123")
		require.NoError(t, err)

		require.NotEqual(t, first, second, "bcrypt salt should make hashes unique")
	})
}
