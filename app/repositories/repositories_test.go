package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"tagmind/app/models/diary"
	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/pkg/database"
	"tagmind/pkg/database/dbtest"
	"tagmind/pkg/hash"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Setup(t)
}

func createDiary(t *testing.T, userID uint64, title, content string, createdAt time.Time, tagIDs ...uint64) *diary.Diary {
	t.Helper()
	d := &diary.Diary{UserID: userID, Title: title}
	if content != "" {
		d.Content = &content
	}
	d.CreatedAt = createdAt
	require.NoError(t, NewDiaryRepository().Create(context.Background(), d, tagIDs))
	return d
}

func createTag(t *testing.T, name, category string) *tag.Tag {
	t.Helper()
	created, err := NewTagRepository().FindOrCreate(context.Background(), name, category)
	require.NoError(t, err)
	return created
}

func createPack(t *testing.T, name, productID string, price int, tagNames ...string) *tagpack.TagPack {
	t.Helper()
	pack := &tagpack.TagPack{Name: name, ProductID: productID, Price: price}
	require.NoError(t, NewTagPackRepository().Create(context.Background(), pack))
	for _, n := range tagNames {
		packID := pack.ID
		require.NoError(t, database.DB.Create(&tag.Tag{Name: n, Category: "pack", TagPackID: &packID}).Error)
	}
	return pack
}
