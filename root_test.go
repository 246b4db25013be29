package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		OwnerID:       config.DefaultOwnerID,
		OwnerUsername: "admin",
		BcryptCost:    auth.MinCost,
		JWTExpiration: time.Hour,
	}
}

func TestBuildAuth_PlainPasswordFallback(t *testing.T) {
	cfg := testConfig()
	cfg.OwnerPassword = "correct horse"

	a, err := buildAuth(cfg)
	require.NoError(t, err)
	assert.True(t, cfg.JWTSecretGenerated)

	token, _, err := a.Login("admin", "correct horse")
	require.NoError(t, err)
	owner, err := a.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOwnerID, owner)

	_, _, err = a.Login("admin", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestBuildAuth_PrefersHash(t *testing.T) {
	p, err := auth.NewPasswords(auth.MinCost, "pepper")
	require.NoError(t, err)
	hash, err := p.Hash("from-hash")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.PasswordPepper = "pepper"
	cfg.OwnerPasswordHash = hash
	cfg.OwnerPassword = "ignored"
	cfg.JWTSecret = "fixed"

	a, err := buildAuth(cfg)
	require.NoError(t, err)
	assert.False(t, cfg.JWTSecretGenerated)

	_, _, err = a.Login("admin", "from-hash")
	assert.NoError(t, err)
	_, _, err = a.Login("admin", "ignored")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPeriodCommand(t *testing.T) {
	var out bytes.Buffer
	periodCmd.SetOut(&out)
	t.Cleanup(func() { periodCmd.SetOut(nil) })

	err := periodCmd.RunE(periodCmd, []string{"Jan 2022 - Present", "nonsense"})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2022-01-01", got[0]["start_date"])
	assert.Nil(t, got[0]["end_date"])
	assert.Equal(t, true, got[0]["ongoing"])
	assert.Equal(t, false, got[1]["parsed"])
}

func TestHashPasswordCommand(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	var out bytes.Buffer
	hashPasswordCmd.SetIn(strings.NewReader("s3cret\n"))
	hashPasswordCmd.SetOut(&out)
	t.Cleanup(func() {
		hashPasswordCmd.SetIn(nil)
		hashPasswordCmd.SetOut(nil)
	})

	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, nil))

	p, err := auth.NewPasswords(auth.MinCost, "")
	require.NoError(t, err)
	assert.True(t, p.Verify("s3cret", strings.TrimSpace(out.String())))

	hashPasswordCmd.SetIn(strings.NewReader("\n"))
	assert.Error(t, hashPasswordCmd.RunE(hashPasswordCmd, nil))
}
