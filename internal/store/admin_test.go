// internal/store/admin_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangvu/bmarket/internal/models"
)

func adminFixture(t *testing.T) (*Store, *models.AuthUser) {
	t.Helper()
	s, _ := newTestStore(t)
	admin := register(t, s, "admin@x.com", "Admin")
	makeAdmin(t, s, admin.ID)
	return s, admin
}

func TestAdminSurfaceRejectsNonAdmins(t *testing.T) {
	s, _ := newTestStore(t)
	user := register(t, s, "an@x.com", "An")

	_, err := s.AdminListUsers(user.ID, AdminUserFilter{})
	assert.True(t, models.IsUnauthorized(err))
	_, err = s.AdminListReports(user.ID, AdminReportFilter{})
	assert.True(t, models.IsUnauthorized(err))
	_, err = s.UpdateSettings(user.ID, &UpdateSettingsRequest{})
	assert.True(t, models.IsUnauthorized(err))
	_, err = s.GetRecentActivity(user.ID, 10)
	assert.True(t, models.IsUnauthorized(err))
}

func TestAdminListUsersFilters(t *testing.T) {
	s, admin := adminFixture(t)
	register(t, s, "an@x.com", "An Nguyễn")
	binh := register(t, s, "binh@x.com", "Binh")

	suspended := models.UserStatusSuspended
	_, err := s.AdminUpdateUser(admin.ID, binh.ID, &AdminUpdateUserRequest{Status: &suspended})
	require.NoError(t, err)

	all, err := s.AdminListUsers(admin.ID, AdminUserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "suspended users stay in the default list")

	onlySuspended, err := s.AdminListUsers(admin.ID, AdminUserFilter{Status: suspended})
	require.NoError(t, err)
	require.Len(t, onlySuspended, 1)
	assert.Equal(t, binh.ID, onlySuspended[0].ID)

	byQuery, err := s.AdminListUsers(admin.ID, AdminUserFilter{Query: "nguyễn"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 1)
}

func TestAdminDeletedUsersHiddenByDefault(t *testing.T) {
	s, admin := adminFixture(t)
	an := register(t, s, "an@x.com", "An")

	deleted := models.UserStatusDeleted
	_, err := s.AdminUpdateUser(admin.ID, an.ID, &AdminUpdateUserRequest{Status: &deleted})
	require.NoError(t, err)

	all, err := s.AdminListUsers(admin.ID, AdminUserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	explicitly, err := s.AdminListUsers(admin.ID, AdminUserFilter{Status: deleted})
	require.NoError(t, err)
	assert.Len(t, explicitly, 1, "deleted surfaces only when the filter names it")
}

func TestAdminHideRestoresReviewAggregate(t *testing.T) {
	s, admin := adminFixture(t)
	seller := register(t, s, "seller@x.com", "Seller")
	a := register(t, s, "a@x.com", "A")
	b := register(t, s, "b@x.com", "B")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)

	_, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: a.ID, Rating: 5})
	require.NoError(t, err)
	low, err := s.AddReview(&AddReviewRequest{ProductID: p.ID, UserID: b.ID, Rating: 1})
	require.NoError(t, err)

	hidden := models.ContentStatusHidden
	_, err = s.AdminUpdateReview(admin.ID, low.ID, &AdminUpdateReviewRequest{Status: &hidden})
	require.NoError(t, err)

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AvgRating, "hidden review drops out of the aggregate")
	assert.Equal(t, 1, got.ReviewCount)

	active := models.ContentStatusActive
	_, err = s.AdminUpdateReview(admin.ID, low.ID, &AdminUpdateReviewRequest{Status: &active})
	require.NoError(t, err)
	got, err = s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AvgRating)
}

func TestAdminHideCommentRecountsPost(t *testing.T) {
	s, admin := adminFixture(t)
	author := register(t, s, "an@x.com", "An")
	post := createPost(t, s, author.ID, "hello")
	c, err := s.AddComment(&AddCommentRequest{PostID: post.ID, UserID: admin.ID, Content: "hi"})
	require.NoError(t, err)

	hidden := models.ContentStatusHidden
	_, err = s.AdminUpdateComment(admin.ID, c.ID, &AdminUpdateCommentRequest{Status: &hidden})
	require.NoError(t, err)

	detail, err := s.GetPostByID(post.ID, "")
	require.NoError(t, err)
	assert.Zero(t, detail.Post.CommentCount)
	assert.Empty(t, detail.Comments, "hidden comments drop off the public detail view")
}

func TestReportLifecycle(t *testing.T) {
	s, admin := adminFixture(t)
	reporter := register(t, s, "an@x.com", "An")
	seller := register(t, s, "seller@x.com", "Seller")
	p := createProduct(t, s, seller.ID, "Hàng giả", 1000)

	report, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetProduct, TargetID: p.ID,
		Reason: "counterfeit", ReporterID: reporter.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusOpen, report.Status)

	open, err := s.AdminListReports(admin.ID, AdminReportFilter{Status: models.ReportStatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)

	resolved, err := s.AdminResolveReport(admin.ID, report.ID, &ResolveReportRequest{
		Status: models.ReportStatusResolved, Note: "confirmed", HideTarget: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, resolved.ResolvedAt)

	// hideTarget cascades: the product vanishes from public reads.
	_, err = s.GetProductByID(p.ID)
	assert.True(t, models.IsNotFound(err))

	// Closed reports are immutable.
	_, err = s.AdminResolveReport(admin.ID, report.ID, &ResolveReportRequest{Status: models.ReportStatusDismissed})
	assert.True(t, models.IsValidation(err))
}

func TestDismissReportNeverHidesTarget(t *testing.T) {
	s, admin := adminFixture(t)
	reporter := register(t, s, "an@x.com", "An")
	seller := register(t, s, "seller@x.com", "Seller")
	p := createProduct(t, s, seller.ID, "Gạo", 20000)
	target := register(t, s, "target@x.com", "Target")

	productReport, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetProduct, TargetID: p.ID,
		Reason: "spam", ReporterID: reporter.ID,
	})
	require.NoError(t, err)
	userReport, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetUser, TargetID: target.ID,
		Reason: "spam", ReporterID: reporter.ID,
	})
	require.NoError(t, err)

	// HideTarget only applies to a resolved outcome; dismissal is a
	// "nothing wrong here" verdict and must leave the target untouched.
	dismissed, err := s.AdminResolveReport(admin.ID, productReport.ID, &ResolveReportRequest{
		Status: models.ReportStatusDismissed, HideTarget: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusDismissed, dismissed.Status)

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContentStatusActive, got.Status)

	_, err = s.AdminResolveReport(admin.ID, userReport.ID, &ResolveReportRequest{
		Status: models.ReportStatusDismissed, HideTarget: true,
	})
	require.NoError(t, err)

	session, err := s.Login(&LoginRequest{Email: "target@x.com", Password: "secret1"})
	require.NoError(t, err, "dismissal must not suspend the reported user")
	assert.Equal(t, target.ID, session.User.ID)
}

func TestResolveReportRequiresTerminalStatus(t *testing.T) {
	s, admin := adminFixture(t)
	reporter := register(t, s, "an@x.com", "An")
	report, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetUser, TargetID: reporter.ID,
		Reason: "spam", ReporterID: reporter.ID,
	})
	require.NoError(t, err)

	_, err = s.AdminResolveReport(admin.ID, report.ID, &ResolveReportRequest{Status: models.ReportStatusOpen})
	assert.True(t, models.IsValidation(err))
}

func TestResolveReportSuspendsReportedUser(t *testing.T) {
	s, admin := adminFixture(t)
	reporter := register(t, s, "an@x.com", "An")
	target := register(t, s, "troll@x.com", "Troll")

	report, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetUser, TargetID: target.ID,
		Reason: "abuse", ReporterID: reporter.ID,
	})
	require.NoError(t, err)

	_, err = s.AdminResolveReport(admin.ID, report.ID, &ResolveReportRequest{
		Status: models.ReportStatusResolved, HideTarget: true,
	})
	require.NoError(t, err)

	_, err = s.Login(&LoginRequest{Email: "troll@x.com", Password: "secret1"})
	assert.True(t, models.IsUnauthorized(err), "user targets are suspended, not hidden")
}

func TestResolveReportMissingTargetStillResolves(t *testing.T) {
	s, admin := adminFixture(t)
	reporter := register(t, s, "an@x.com", "An")

	report, err := s.CreateReport(&CreateReportRequest{
		Type: models.ReportTargetPost, TargetID: "post-404",
		Reason: "gone", ReporterID: reporter.ID,
	})
	require.NoError(t, err)

	resolved, err := s.AdminResolveReport(admin.ID, report.ID, &ResolveReportRequest{
		Status: models.ReportStatusResolved, HideTarget: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
}

func TestUpdateSettingsValidation(t *testing.T) {
	s, admin := adminFixture(t)

	badFee := 120.0
	_, err := s.UpdateSettings(admin.ID, &UpdateSettingsRequest{FeePercentage: &badFee})
	assert.True(t, models.IsValidation(err))

	badSize := 0.1
	_, err = s.UpdateSettings(admin.ID, &UpdateSettingsRequest{MaxUploadSizeMB: &badSize})
	assert.True(t, models.IsValidation(err))

	empty := "   "
	_, err = s.UpdateSettings(admin.ID, &UpdateSettingsRequest{MarketplaceName: &empty})
	assert.True(t, models.IsValidation(err))

	// A failed patch leaves everything untouched.
	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAdminSettings(), settings)

	fee := 2.5
	name := "Chợ Quê"
	updated, err := s.UpdateSettings(admin.ID, &UpdateSettingsRequest{FeePercentage: &fee, MarketplaceName: &name})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.FeePercentage)
	assert.Equal(t, "Chợ Quê", updated.MarketplaceName)
}

func TestSettingsPersistAcrossReload(t *testing.T) {
	s, kv := newTestStore(t)
	admin := register(t, s, "admin@x.com", "Admin")
	makeAdmin(t, s, admin.ID)

	off := false
	_, err := s.UpdateSettings(admin.ID, &UpdateSettingsRequest{EnableNewPost: &off})
	require.NoError(t, err)

	s2 := reopenStore(t, kv)
	settings, err := s2.GetSettings()
	require.NoError(t, err)
	assert.False(t, settings.EnableNewPost)
}

func TestRecentActivityNewestFirst(t *testing.T) {
	s, admin := adminFixture(t)
	seller := register(t, s, "seller@x.com", "Seller")
	createProduct(t, s, seller.ID, "Gạo", 20000)
	createPost(t, s, seller.ID, "mở bán")

	items, err := s.GetRecentActivity(admin.ID, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "post", items[0].Kind)
	assert.Equal(t, "product", items[1].Kind)
}
