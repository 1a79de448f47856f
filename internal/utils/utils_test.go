package utils

import (
	"crypto/tls"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")

	require.NoError(t, EnsureSelfSignedCert(cert, key, "atlas.test"))
	pair, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Certificate)

	// 已存在时不重新生成
	require.NoError(t, EnsureSelfSignedCert(cert, key, "other"))
	again, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)
	assert.Equal(t, pair.Certificate[0], again.Certificate[0])
}

func TestOpenSQLiteCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "atlas.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
	assert.FileExists(t, path)
}
