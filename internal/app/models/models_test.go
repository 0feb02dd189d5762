package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleType(t *testing.T) {
	assert.True(t, RoleCompany.IsSelfAssignable())
	assert.False(t, RoleAdmin.IsSelfAssignable())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, RoleType("STUDENT").IsValid())
}

func TestJob_IsOpen(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Job{Status: JobStatusActive}).IsOpen(now))
	assert.True(t, (&Job{Status: JobStatusActive, ExpiresAt: &future}).IsOpen(now))
	assert.False(t, (&Job{Status: JobStatusActive, ExpiresAt: &past}).IsOpen(now))
	assert.False(t, (&Job{Status: JobStatusDraft}).IsOpen(now))
}

func TestRefreshToken_IsExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&RefreshToken{ExpiresAt: now}).IsExpired(now))
	assert.False(t, (&RefreshToken{ExpiresAt: now.Add(time.Second)}).IsExpired(now))
}

func TestCommunityRole(t *testing.T) {
	assert.False(t, CommunityRoleCreator.IsAssignable())
	assert.True(t, CommunityRoleModerator.IsAssignable())
	assert.True(t, CommunityRoleAdmin.CanManage())
	assert.False(t, CommunityRoleMember.CanManage())
	assert.Equal(t, ChatRoleAdmin, CommunityRoleCreator.ChatRole())
	assert.Equal(t, ChatRoleMember, CommunityRoleMember.ChatRole())
}

func TestStoredFile_IsImage(t *testing.T) {
	assert.True(t, (&StoredFile{MIMEType: "image/png"}).IsImage())
	assert.False(t, (&StoredFile{MIMEType: "application/pdf"}).IsImage())
}
