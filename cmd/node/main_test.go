package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmesa/branchsync/internal/config"
	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/internal/testutil"
	userdomain "github.com/acmesa/branchsync/internal/user/domain"
	userrepository "github.com/acmesa/branchsync/internal/user/repository"
	"github.com/acmesa/branchsync/pkg/auth"
)

func TestSeedAdmin_CreatesAccountAndBroadcasts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := userrepository.NewGormUserRepository(db)
	sync := replication.NewSynchronizer([]string{"http://peer.invalid"}, "secret", time.Minute)

	cfg := &config.Config{AdminUser: "admin", AdminPassword: "admin123"}
	seedAdmin(repo, sync, cfg)

	admin, err := repo.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, userdomain.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "admin123"))

	status := sync.Status()
	assert.Equal(t, 1, status.Pending["http://peer.invalid"])
}

func TestSeedAdmin_SecondRunIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := userrepository.NewGormUserRepository(db)
	sync := replication.NewSynchronizer(nil, "secret", time.Minute)

	cfg := &config.Config{AdminUser: "admin", AdminPassword: "admin123"}
	seedAdmin(repo, sync, cfg)

	first, err := repo.FindByUsername("admin")
	require.NoError(t, err)

	seedAdmin(repo, sync, cfg)

	second, err := repo.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, second.PasswordHash)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}
