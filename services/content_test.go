package services

import (
	"testing"

	"github.com/furkangunes-ai/video-editing-course-web/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCourseContentsBackfillsLessonsThenQuizzes(t *testing.T) {
	db := newTestDB(t)

	lessonB := models.Lesson{CourseID: 1, Title: "İkinci ders", Order: 1}
	lessonA := models.Lesson{CourseID: 1, Title: "İlk ders", Order: 0}
	require.NoError(t, db.Create(&lessonB).Error)
	require.NoError(t, db.Create(&lessonA).Error)

	quiz := models.Quiz{CourseID: 1, Title: "Final quiz"}
	require.NoError(t, db.Create(&quiz).Error)

	contents, err := EnsureCourseContents(db, 1)
	require.NoError(t, err)
	require.Len(t, contents, 3)

	assert.Equal(t, models.ContentTypeLesson, contents[0].ContentType)
	assert.Equal(t, lessonA.ID, contents[0].ContentID)
	assert.Equal(t, 0, contents[0].Order)
	assert.Equal(t, lessonB.ID, contents[1].ContentID)
	assert.Equal(t, models.ContentTypeQuiz, contents[2].ContentType)
	assert.Equal(t, quiz.ID, contents[2].ContentID)
	assert.Equal(t, 2, contents[2].Order)

	// Backfill is persisted: a second read returns the same rows.
	again, err := EnsureCourseContents(db, 1)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, contents[0].ID, again[0].ID)
}

func TestEnsureCourseContentsEmptyCourse(t *testing.T) {
	db := newTestDB(t)

	contents, err := EnsureCourseContents(db, 42)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestReorderContentsReplacesAll(t *testing.T) {
	db := newTestDB(t)

	lesson := models.Lesson{CourseID: 1, Title: "Ders"}
	require.NoError(t, db.Create(&lesson).Error)
	quiz := models.Quiz{CourseID: 1, Title: "Quiz"}
	require.NoError(t, db.Create(&quiz).Error)

	_, err := EnsureCourseContents(db, 1)
	require.NoError(t, err)

	err = ReorderContents(db, 1, []ContentOrderItem{
		{ContentType: models.ContentTypeQuiz, ContentID: quiz.ID, Order: 0},
		{ContentType: models.ContentTypeLesson, ContentID: lesson.ID, Order: 1},
	})
	require.NoError(t, err)

	contents, err := EnsureCourseContents(db, 1)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, models.ContentTypeQuiz, contents[0].ContentType)
	assert.Equal(t, models.ContentTypeLesson, contents[1].ContentType)
}

func TestReferralSettingsSingleton(t *testing.T) {
	db := newTestDB(t)

	first, err := GetOrCreateReferralSettings(db)
	require.NoError(t, err)
	assert.Equal(t, uint(models.ReferralSettingsID), first.ID)
	assert.Equal(t, 50.0, first.ReferrerReward)
	assert.Equal(t, 30.0, first.ReferredDiscount)
	assert.True(t, first.IsActive)

	second, err := GetOrCreateReferralSettings(db)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.ReferralSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureReferralCodeLazyAndStable(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ref@example.com", false)

	require.NoError(t, EnsureReferralCode(db, &user))
	require.NotNil(t, user.ReferralCode)
	first := *user.ReferralCode
	assert.Len(t, first, 8)

	require.NoError(t, EnsureReferralCode(db, &user))
	assert.Equal(t, first, *user.ReferralCode)
}

func TestSettleReferralForUser(t *testing.T) {
	db := newTestDB(t)
	referrer := createUser(t, db, "referrer@example.com", false)
	referred := createUser(t, db, "referred@example.com", false)

	referral := models.Referral{
		ReferrerID:     referrer.ID,
		ReferredID:     referred.ID,
		Status:         models.ReferralStatusPending,
		ReferrerReward: 50,
	}
	require.NoError(t, db.Create(&referral).Error)

	require.NoError(t, SettleReferralForUser(db, referred.ID, 99))

	var settled models.Referral
	require.NoError(t, db.First(&settled, referral.ID).Error)
	assert.Equal(t, models.ReferralStatusActive, settled.Status)
	require.NotNil(t, settled.ActivatedAt)
	require.NotNil(t, settled.OrderID)
	assert.Equal(t, uint(99), *settled.OrderID)

	var credited models.User
	require.NoError(t, db.First(&credited, referrer.ID).Error)
	assert.Equal(t, 50.0, credited.ReferralEarnings)
	assert.Equal(t, 50.0, credited.ReferralBalance)

	// No pending referral left; settling again is a no-op.
	require.NoError(t, SettleReferralForUser(db, referred.ID, 99))
	require.NoError(t, db.First(&credited, referrer.ID).Error)
	assert.Equal(t, 50.0, credited.ReferralEarnings)
}
