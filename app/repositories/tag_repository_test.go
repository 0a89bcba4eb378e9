package repositories

import (
	"context"
	"testing"
	"time"

	"tagmind/app/models/diary"
	"tagmind/app/models/tag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateTagReturnsSameRow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()

	created, err := repo.FindOrCreate(ctx, "여행", "activity")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "여행", created.Name)
	assert.Equal(t, "activity", created.Category)

	found, err := repo.GetByName(ctx, "여행")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Category, found.Category)

	again, err := repo.FindOrCreate(ctx, "여행", "other")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "activity", again.Category)

	var count int64
	require.NoError(t, db.Model(&tag.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateTagDefaultCategory(t *testing.T) {
	setupDB(t)

	created, err := NewTagRepository().FindOrCreate(context.Background(), "카페", "")
	require.NoError(t, err)
	assert.Equal(t, tag.DefaultCategory, created.Category)
}

func TestGetTagByNameAbsent(t *testing.T) {
	setupDB(t)

	_, err := NewTagRepository().GetByName(context.Background(), "never-created")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTagByNameIsCaseSensitive(t *testing.T) {
	setupDB(t)
	createTag(t, "Happy", "emotion")

	_, err := NewTagRepository().GetByName(context.Background(), "happy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachOnce(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	d := createDiary(t, 1, "제목", "", time.Time{})
	tg := createTag(t, "운동", "activity")

	row, err := repo.Attach(ctx, d.ID, tg.ID, tag.SourceManual)
	require.NoError(t, err)
	assert.Equal(t, tag.SourceManual, row.Source)

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tg.ID, rows[0].TagID)
	require.NotNil(t, rows[0].Tag)
	assert.Equal(t, "운동", rows[0].Tag.Name)
}

func TestAttachTwiceIsIdempotent(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	d := createDiary(t, 1, "제목", "", time.Time{})
	tg := createTag(t, "운동", "activity")

	_, err := repo.Attach(ctx, d.ID, tg.ID, tag.SourceManual)
	require.NoError(t, err)
	_, err = repo.Attach(ctx, d.ID, tg.ID, tag.SourceManual)
	require.NoError(t, err)

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAttachKeepsHigherRankedSource(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	d := createDiary(t, 1, "제목", "", time.Time{})
	tg := createTag(t, "운동", "activity")

	row, err := repo.Attach(ctx, d.ID, tg.ID, tag.SourceAIRule)
	require.NoError(t, err)
	assert.Equal(t, tag.SourceAIRule, row.Source)

	row, err = repo.Attach(ctx, d.ID, tg.ID, tag.SourceManual)
	require.NoError(t, err)
	assert.Equal(t, tag.SourceManual, row.Source)

	row, err = repo.Attach(ctx, d.ID, tg.ID, tag.SourceAIModel)
	require.NoError(t, err)
	assert.Equal(t, tag.SourceManual, row.Source)

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tag.SourceManual, rows[0].Source)
}

func TestDetachThenZero(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	d := createDiary(t, 1, "제목", "", time.Time{})
	tg := createTag(t, "운동", "activity")

	_, err := repo.Attach(ctx, d.ID, tg.ID, tag.SourceManual)
	require.NoError(t, err)
	require.NoError(t, repo.Detach(ctx, d.ID, tg.ID))

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDetachAbsentIsNoop(t *testing.T) {
	setupDB(t)
	d := createDiary(t, 1, "제목", "", time.Time{})

	assert.NoError(t, NewTagRepository().Detach(context.Background(), d.ID, 999))
}

func TestReplaceAll(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	a := createTag(t, "운동", "activity")
	b := createTag(t, "공부", "activity")
	c := createTag(t, "회의", "work")
	d := createDiary(t, 1, "제목", "", time.Time{}, a.ID)

	_, err := repo.Attach(ctx, d.ID, a.ID, tag.SourceAIRule)
	require.NoError(t, err)

	rows, err := repo.ReplaceAll(ctx, d.ID, []uint64{b.ID, c.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, tag.SourceManual, row.Source)
	}
	assert.ElementsMatch(t, []uint64{b.ID, c.ID}, []uint64{rows[0].TagID, rows[1].TagID})
}

func TestReplaceAllWithEmptyIsIdempotent(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	a := createTag(t, "운동", "activity")
	d := createDiary(t, 1, "제목", "", time.Time{}, a.ID)

	rows, err := repo.ReplaceAll(ctx, d.ID, []uint64{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ReplaceAll(ctx, d.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReplaceAllUnknownTagRollsBack(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	a := createTag(t, "운동", "activity")
	b := createTag(t, "공부", "activity")
	d := createDiary(t, 1, "제목", "", time.Time{}, a.ID)

	_, err := repo.ReplaceAll(ctx, d.ID, []uint64{b.ID, 999})
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].TagID)
}

func TestListAvailableIncludesOwnedPackTags(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	_, err := repo.FindOrCreateDefault(ctx, "운동", "activity")
	require.NoError(t, err)
	pack := createPack(t, "Travel", "pack.travel", 499, "여행", "바다")

	tags, err := repo.ListAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	_, err = NewTagPackRepository().Grant(ctx, 1, pack)
	require.NoError(t, err)

	tags, err = repo.ListAvailable(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	tags, err = repo.ListAvailable(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestListAvailableHidesOtherUsersTags(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	_, err := repo.FindOrCreateDefault(ctx, "행복", "emotion")
	require.NoError(t, err)
	person := createTag(t, "김철수", "person")
	d := createDiary(t, 1, "상담", "", time.Time{})
	_, err = repo.Attach(ctx, d.ID, person.ID, tag.SourceAIModel)
	require.NoError(t, err)

	names := func(userID uint64) []string {
		tags, err := repo.ListAvailable(ctx, userID)
		require.NoError(t, err)
		out := make([]string, 0, len(tags))
		for _, tg := range tags {
			out = append(out, tg.Name)
		}
		return out
	}
	assert.ElementsMatch(t, []string{"행복", "김철수"}, names(1))
	assert.Equal(t, []string{"행복"}, names(2))
}

func TestFindOrCreateDefaultPromotesBaseTag(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	plain := createTag(t, "공부", "activity")
	assert.False(t, plain.IsDefault)

	promoted, err := repo.FindOrCreateDefault(ctx, "공부", "activity")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, promoted.ID)
	assert.True(t, promoted.IsDefault)

	fresh, err := repo.FindOrCreateDefault(ctx, "회의", "work")
	require.NoError(t, err)
	assert.True(t, fresh.IsDefault)

	// 标签包中的标签不会变成基础标签
	createPack(t, "Travel", "pack.travel", 499, "여행")
	packTag, err := repo.FindOrCreateDefault(ctx, "여행", "travel")
	require.NoError(t, err)
	assert.False(t, packTag.IsDefault)
	assert.NotNil(t, packTag.TagPackID)
}

func TestUnownedPackTagIsNotUsable(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	base := createTag(t, "운동", "activity")
	pack := createPack(t, "Travel", "pack.travel", 499, "여행")
	travel, err := repo.GetByName(ctx, "여행")
	require.NoError(t, err)
	d := createDiary(t, 1, "제목", "", time.Time{}, base.ID)

	assert.NoError(t, repo.Usable(ctx, 1, []uint64{base.ID}))
	assert.ErrorIs(t, repo.Usable(ctx, 1, []uint64{base.ID, travel.ID}), ErrNotFound)

	_, err = repo.Attach(ctx, d.ID, travel.ID, tag.SourceManual)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ReplaceAll(ctx, d.ID, []uint64{travel.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, base.ID, rows[0].TagID)

	// 新建日记时整体回滚
	other := &diary.Diary{UserID: 1, Title: "여행"}
	err = NewDiaryRepository().Create(ctx, other, []uint64{travel.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewDiaryRepository().Get(ctx, 1, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 购买后可用，且只对购买者可用
	_, err = NewTagPackRepository().Grant(ctx, 1, pack)
	require.NoError(t, err)
	_, err = repo.Attach(ctx, d.ID, travel.ID, tag.SourceManual)
	assert.NoError(t, err)
	assert.ErrorIs(t, repo.Usable(ctx, 2, []uint64{travel.ID}), ErrNotFound)

	stranger := createDiary(t, 2, "남의 일기", "", time.Time{})
	_, err = repo.ReplaceAll(ctx, stranger.ID, []uint64{travel.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetachSourceExcept(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository()
	a := createTag(t, "서울", "place")
	b := createTag(t, "부산", "place")
	c := createTag(t, "친구", "person")
	d := createDiary(t, 1, "제목", "", time.Time{})
	for _, id := range []uint64{a.ID, b.ID} {
		_, err := repo.Attach(ctx, d.ID, id, tag.SourceAIModel)
		require.NoError(t, err)
	}
	_, err := repo.Attach(ctx, d.ID, c.ID, tag.SourceManual)
	require.NoError(t, err)

	require.NoError(t, repo.DetachSourceExcept(ctx, d.ID, tag.SourceAIModel, []uint64{a.ID}))
	rows, err := repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []uint64{a.ID, c.ID}, []uint64{rows[0].TagID, rows[1].TagID})

	require.NoError(t, repo.DetachSourceExcept(ctx, d.ID, tag.SourceAIModel, nil))
	rows, err = repo.ListForDiary(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].TagID)
}
