package service

import (
	"testing"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemAction(t *testing.T) {
	for raw, want := range map[string]ItemAction{
		"force_delete": ForceDelete{},
		"FLAG_SPAM":    FlagSpam{},
		" unflag_spam": UnflagSpam{},
	} {
		got, err := ParseItemAction(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseItemAction("archive")
	assert.True(t, models.HasCode(err, models.CodeInvalidAction))
}

func TestParseUserAction(t *testing.T) {
	got, err := ParseUserAction("suspend", "")
	require.NoError(t, err)
	assert.Equal(t, Suspend{}, got)

	got, err = ParseUserAction("change_role", "moderator")
	require.NoError(t, err)
	assert.Equal(t, ChangeRole{NewRole: models.RoleModerator}, got)

	_, err = ParseUserAction("change_role", "superuser")
	assert.True(t, models.HasCode(err, models.CodeInvalidRole))

	_, err = ParseUserAction("ban", "")
	assert.True(t, models.HasCode(err, models.CodeInvalidAction))
}

func TestModerationService_ForceDelete(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)
	svc.now = fixedClock()

	poster := createUser(t, db, models.RoleUser)
	mod := createUser(t, db, models.RoleModerator)
	item := createItem(t, db, poster, models.ItemTypeLost)
	require.NoError(t, db.Create(&models.Comment{ItemID: item.ID, UserID: poster.ID, Content: "call me", ImageURL: "https://img/1.png"}).Error)
	require.NoError(t, db.Create(&models.Comment{ItemID: item.ID, UserID: mod.ID, Content: "spam link"}).Error)

	got, err := svc.ModerateItem(bg, actorFor(mod), item.ID, ForceDelete{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusDeleted, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, svc.now().Equal(*got.ResolvedAt))

	var comments []models.Comment
	require.NoError(t, db.Where("item_id = ?", item.ID).Find(&comments).Error)
	require.Len(t, comments, 2)
	for _, c := range comments {
		assert.True(t, c.Redacted)
		assert.Equal(t, models.RedactedCommentContent, c.Content)
		assert.Empty(t, c.ImageURL)
	}

	entries, err := svc.ListAudit(bg, actorFor(mod), repository.AuditFilter{TargetType: models.AuditTargetItem, TargetID: item.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "force_delete", entries[0].Action)
	assert.Equal(t, mod.ID, entries[0].ActorID)
	assert.Equal(t, "status LOST -> DELETED", entries[0].Detail)

	_, err = svc.ModerateItem(bg, actorFor(mod), item.ID, ForceDelete{})
	assert.True(t, models.HasCode(err, models.CodeAlreadyDeleted), "got %v", err)

	_, err = svc.ModerateItem(bg, actorFor(mod), item.ID, FlagSpam{})
	assert.True(t, models.HasCode(err, models.CodeItemDeleted), "got %v", err)
}

func TestModerationService_FlagAndUnflagSpam(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	poster := createUser(t, db, models.RoleUser)
	admin := createUser(t, db, models.RoleAdmin)
	item := createItem(t, db, poster, models.ItemTypeFound)

	_, err := svc.ModerateItem(bg, actorFor(admin), item.ID, UnflagSpam{})
	assert.True(t, models.HasCode(err, models.CodeNotSpamFlagged), "got %v", err)

	flagged, err := svc.ModerateItem(bg, actorFor(admin), item.ID, FlagSpam{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusResolved, flagged.Status)
	assert.True(t, flagged.IsSpamFlagged())
	assert.False(t, flagged.IsTerminal())

	_, err = svc.ModerateItem(bg, actorFor(admin), item.ID, FlagSpam{})
	assert.True(t, models.HasCode(err, models.CodeAlreadyFlagged), "got %v", err)

	claimant := createUser(t, db, models.RoleUser)
	claim := createClaim(t, db, item, claimant, models.ClaimTypeOwnIt)
	_, err = NewClaimService(store).ResolveClaim(bg, actorFor(poster), claim.ID, models.ClaimStatusApproved)
	assert.True(t, models.HasCode(err, models.CodeItemAlreadyResolved), "got %v", err)

	restored, err := svc.ModerateItem(bg, actorFor(admin), item.ID, UnflagSpam{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusLost, restored.Status)
	assert.Equal(t, models.ModerationStateNone, restored.ModerationState)
	assert.Nil(t, restored.ResolvedAt)

	entries, err := svc.ListAudit(bg, actorFor(admin), repository.AuditFilter{TargetType: models.AuditTargetItem, TargetID: item.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestModerationService_ForceDeleteClaimedItemKeepsClaims(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)
	svc.now = fixedClock()

	poster := createUser(t, db, models.RoleUser)
	finder := createUser(t, db, models.RoleUser)
	other := createUser(t, db, models.RoleUser)
	admin := createUser(t, db, models.RoleAdmin)
	item := createItem(t, db, poster, models.ItemTypeLost)
	approved := createClaim(t, db, item, finder, models.ClaimTypeFoundIt)
	pending := createClaim(t, db, item, other, models.ClaimTypeOwnIt)
	require.NoError(t, db.Create(&models.Comment{ItemID: item.ID, UserID: finder.ID, Content: "it was on the bench"}).Error)

	_, err := NewClaimService(store).ResolveClaim(bg, actorFor(poster), approved.ID, models.ClaimStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusClaimed, reloadItem(t, db, item.ID).Status)

	got, err := svc.ModerateItem(bg, actorFor(admin), item.ID, ForceDelete{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusDeleted, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, svc.now().Equal(*got.ResolvedAt))

	assert.Equal(t, models.ClaimStatusApproved, reloadClaim(t, db, approved.ID).Status)
	assert.Equal(t, models.ClaimStatusPending, reloadClaim(t, db, pending.ID).Status)

	var comment models.Comment
	require.NoError(t, db.Where("item_id = ?", item.ID).First(&comment).Error)
	assert.True(t, comment.Redacted)
	assert.Equal(t, models.RedactedCommentContent, comment.Content)
}

func TestModerationService_UnflagReopensClaimedItem(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)
	claims := NewClaimService(store)

	poster := createUser(t, db, models.RoleUser)
	finder := createUser(t, db, models.RoleUser)
	owner := createUser(t, db, models.RoleUser)
	mod := createUser(t, db, models.RoleModerator)
	item := createItem(t, db, poster, models.ItemTypeLost)
	first := createClaim(t, db, item, finder, models.ClaimTypeFoundIt)

	_, err := claims.ResolveClaim(bg, actorFor(poster), first.ID, models.ClaimStatusApproved)
	require.NoError(t, err)

	flagged, err := svc.ModerateItem(bg, actorFor(mod), item.ID, FlagSpam{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusResolved, flagged.Status)
	require.NotNil(t, flagged.ClaimedByID)
	assert.Equal(t, finder.ID, *flagged.ClaimedByID)

	restored, err := svc.ModerateItem(bg, actorFor(mod), item.ID, UnflagSpam{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusLost, restored.Status)
	assert.Nil(t, restored.ClaimedByID)
	assert.Nil(t, restored.ResolvedAt)

	second := createClaim(t, db, item, owner, models.ClaimTypeOwnIt)
	resolved, err := claims.ResolveClaim(bg, actorFor(poster), second.ID, models.ClaimStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusResolved, resolved.Item.Status)
	assert.Equal(t, owner.ID, *resolved.Item.ClaimedByID)
}

func TestModerationService_FlagResolvedItem(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	poster := createUser(t, db, models.RoleUser)
	mod := createUser(t, db, models.RoleModerator)
	item := createItem(t, db, poster, models.ItemTypeLost)
	_, err := NewItemService(store).ResolveOwnItem(bg, actorFor(poster), item.ID)
	require.NoError(t, err)

	_, err = svc.ModerateItem(bg, actorFor(mod), item.ID, FlagSpam{})
	assert.True(t, models.HasCode(err, models.CodeItemAlreadyResolved), "got %v", err)

	got, err := svc.ModerateItem(bg, actorFor(mod), item.ID, ForceDelete{})
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusDeleted, got.Status)
}

func TestModerationService_ItemRequiresStaff(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	poster := createUser(t, db, models.RoleUser)
	item := createItem(t, db, poster, models.ItemTypeLost)

	_, err := svc.ModerateItem(bg, actorFor(poster), item.ID, ForceDelete{})
	assert.True(t, models.HasCode(err, models.CodeAuthorizationDenied), "got %v", err)
	assert.Equal(t, models.ItemStatusLost, reloadItem(t, db, item.ID).Status)

	_, err = svc.ModerateItem(bg, nil, item.ID, ForceDelete{})
	assert.True(t, models.HasCode(err, models.CodeAuthenticationRequired), "got %v", err)

	_, err = svc.ListAudit(bg, actorFor(poster), repository.AuditFilter{})
	assert.True(t, models.HasCode(err, models.CodeAuthorizationDenied), "got %v", err)
}

func TestModerationService_SuspendAndActivate(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	mod := createUser(t, db, models.RoleModerator)
	target := createUser(t, db, models.RoleUser)

	suspended, err := svc.ModerateUser(bg, actorFor(mod), target.ID, Suspend{})
	require.NoError(t, err)
	assert.False(t, suspended.IsActive)

	_, err = svc.ModerateUser(bg, actorFor(mod), target.ID, Suspend{})
	assert.True(t, models.HasCode(err, models.CodeUserAlreadySuspended), "got %v", err)

	lockedUntil := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", target.ID).
		Updates(map[string]any{"locked_until": lockedUntil, "failed_login_attempts": 5}).Error)

	active, err := svc.ModerateUser(bg, actorFor(mod), target.ID, Activate{})
	require.NoError(t, err)
	assert.True(t, active.IsActive)
	assert.Nil(t, active.LockedUntil)
	assert.Zero(t, active.FailedLoginAttempts)

	_, err = svc.ModerateUser(bg, actorFor(mod), target.ID, Activate{})
	assert.True(t, models.HasCode(err, models.CodeUserAlreadyActive), "got %v", err)

	entries, err := svc.ListAudit(bg, actorFor(mod), repository.AuditFilter{TargetType: models.AuditTargetUser, TargetID: target.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{"suspend", "activate"}, actions)
}

func TestModerationService_ChangeRole(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	admin := createUser(t, db, models.RoleAdmin)
	mod := createUser(t, db, models.RoleModerator)
	target := createUser(t, db, models.RoleUser)
	otherAdmin := createUser(t, db, models.RoleAdmin)

	promoted, err := svc.ModerateUser(bg, actorFor(admin), target.ID, ChangeRole{NewRole: models.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, promoted.Role)

	_, err = svc.ModerateUser(bg, actorFor(admin), target.ID, ChangeRole{NewRole: models.RoleModerator})
	assert.True(t, models.HasCode(err, models.CodeRoleAlreadyAssigned), "got %v", err)

	_, err = svc.ModerateUser(bg, actorFor(admin), target.ID, ChangeRole{NewRole: "ROOT"})
	assert.True(t, models.HasCode(err, models.CodeInvalidRole), "got %v", err)

	_, err = svc.ModerateUser(bg, actorFor(mod), target.ID, ChangeRole{NewRole: models.RoleAdmin})
	assert.True(t, models.HasCode(err, models.CodeAuthorizationDenied), "got %v", err)

	_, err = svc.ModerateUser(bg, actorFor(mod), otherAdmin.ID, Suspend{})
	assert.True(t, models.HasCode(err, models.CodeAuthorizationDenied), "got %v", err)

	_, err = svc.ModerateUser(bg, actorFor(admin), admin.ID, Suspend{})
	assert.True(t, models.HasCode(err, models.CodeSelfModification), "got %v", err)

	_, err = svc.ModerateUser(bg, actorFor(promoted), mod.ID, Suspend{})
	assert.NoError(t, err, "promoted moderator acts with the role it was given")

	_, err = svc.ModerateUser(bg, actorFor(admin), 99999, Suspend{})
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)

	assert.Equal(t, models.RoleAdmin, reloadUser(t, db, otherAdmin.ID).Role)
	assert.True(t, reloadUser(t, db, otherAdmin.ID).IsActive)
}

func TestModerationService_UserRequiresStaff(t *testing.T) {
	db, store := setupServiceDB(t)
	svc := NewModerationService(store)

	user := createUser(t, db, models.RoleUser)
	target := createUser(t, db, models.RoleUser)

	_, err := svc.ModerateUser(bg, actorFor(user), target.ID, Suspend{})
	assert.True(t, models.HasCode(err, models.CodeAuthorizationDenied), "got %v", err)
	assert.True(t, reloadUser(t, db, target.ID).IsActive)
}
