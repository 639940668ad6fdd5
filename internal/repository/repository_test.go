package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB connects to the database named by TEST_DATABASE_DSN, migrates the
// schema and wipes the tables. Tests are skipped when no DSN is configured.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping repository integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Seller{},
		&model.Advert{},
		&model.Animal{},
		&model.AdvertImage{},
		&model.Favorite{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE users, sellers, adverts, animals, advert_images, favorites RESTART IDENTITY CASCADE",
	).Error)

	return db
}

func seedSeller(t *testing.T, db *gorm.DB, email, businessName string) *model.Seller {
	t.Helper()
	user := &model.User{
		Name:         "Ada",
		Surname:      "Yilmaz",
		Email:        email,
		Gender:       model.GenderFemale,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	seller := &model.Seller{UserID: user.ID, BusinessName: businessName}
	require.NoError(t, db.Create(seller).Error)
	return seller
}

func seedAdvert(t *testing.T, repo *AdvertRepository, seller *model.Seller, title, city string, price float64, kind model.AnimalKind, age int, images []model.AdvertImage) *model.Advert {
	t.Helper()
	advert, err := repo.Create(context.Background(), &model.Advert{
		State:       model.AdvertStateActive,
		Price:       price,
		Title:       title,
		Description: "description",
		SellerID:    seller.ID,
		Address:     model.Address{City: city, District: "Merkez"},
		Animal:      &model.Animal{Gender: model.GenderMale, Age: age, Kind: kind},
	}, images)
	require.NoError(t, err)
	return advert
}

func twoImages() []model.AdvertImage {
	return []model.AdvertImage{
		{URL: "u1", StorageID: "s1", Order: 1, IsPrimary: true},
		{URL: "u2", StorageID: "s2", Order: 2},
	}
}

func TestAdvertCreateAndLoadDetails(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")

	created := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())

	loaded, err := repo.GetByIDWithDetails(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.NotNil(t, loaded.Animal)
	assert.Equal(t, model.AnimalKindCat, loaded.Animal.Kind)
	require.NotNil(t, loaded.Seller)
	assert.Equal(t, "Happy Paws", loaded.Seller.BusinessName)
	require.Len(t, loaded.Images, 2)
	assert.Equal(t, 1, loaded.Images[0].Order)
	assert.True(t, loaded.Images[0].IsPrimary)
}

func TestAdvertGetMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)

	advert, err := repo.GetByIDWithDetails(context.Background(), 12345)

	require.NoError(t, err)
	assert.Nil(t, advert)
}

func TestAdvertDeleteCascades(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	advert := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())

	require.NoError(t, db.Create(&model.Favorite{UserID: seller.UserID, AdvertID: advert.ID}).Error)

	require.NoError(t, repo.Delete(context.Background(), advert.ID))

	var count int64
	db.Model(&model.Animal{}).Where("advert_id = ?", advert.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.AdvertImage{}).Where("advert_id = ?", advert.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Favorite{}).Where("advert_id = ?", advert.ID).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.Delete(context.Background(), advert.ID), gorm.ErrRecordNotFound)
}

func TestDeleteImageRefusesPrimary(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	advert := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())

	deleted, err := repo.DeleteImage(context.Background(), advert.Images[0].ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	deleted, err = repo.DeleteImage(context.Background(), advert.Images[1].ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "s2", deleted.StorageID)

	count, err := repo.CountImages(context.Background(), advert.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMaxImageOrderSurvivesDeletes(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	advert := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, []model.AdvertImage{
		{URL: "u1", StorageID: "s1", Order: 1, IsPrimary: true},
		{URL: "u2", StorageID: "s2", Order: 2},
		{URL: "u3", StorageID: "s3", Order: 3},
	})

	max, err := repo.MaxImageOrder(context.Background(), advert.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	// Deleting the middle image leaves a gap; the max must not shrink to
	// the remaining count.
	_, err = repo.DeleteImage(context.Background(), advert.Images[1].ID)
	require.NoError(t, err)

	max, err = repo.MaxImageOrder(context.Background(), advert.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	max, err = repo.MaxImageOrder(context.Background(), advert.ID+100)
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestSetPrimaryMovesFlagAtomically(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	advert := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())

	require.NoError(t, repo.SetPrimary(context.Background(), advert.ID, advert.Images[1].ID))

	loaded, err := repo.GetByIDWithDetails(context.Background(), advert.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Images[0].IsPrimary)
	assert.True(t, loaded.Images[1].IsPrimary)
}

func TestSetPrimaryRejectsForeignImage(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	first := seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())
	second := seedAdvert(t, repo, seller, "Puppy", "Ankara", 300, model.AnimalKindDog, 1, twoImages())

	// An image of another advert must not be promotable.
	err := repo.SetPrimary(context.Background(), first.ID, second.Images[0].ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Nothing moved on either advert.
	loaded, err := repo.GetByIDWithDetails(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Images[0].IsPrimary)
	loaded, err = repo.GetByIDWithDetails(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Images[0].IsPrimary)
}

func TestFilterAndPaginateConjunction(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	paws := seedSeller(t, db, "a@example.com", "Happy Paws")
	birds := seedSeller(t, db, "b@example.com", "Bird Palace")

	seedAdvert(t, repo, paws, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())
	seedAdvert(t, repo, paws, "Puppy", "Istanbul", 400, model.AnimalKindDog, 2, twoImages())
	seedAdvert(t, repo, birds, "Parrot", "Ankara", 250, model.AnimalKindBird, 3, twoImages())

	city := "Istanbul"
	minPrice := 100.0
	maxPrice := 200.0
	kind := model.AnimalKindCat

	adverts, totalCount, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{
		City:       &city,
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		AnimalKind: &kind,
	}, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), totalCount)
	require.Len(t, adverts, 1)
	assert.Equal(t, "Kitten", adverts[0].Title)

	// Only the primary image travels with list results.
	require.Len(t, adverts[0].Images, 1)
	assert.True(t, adverts[0].Images[0].IsPrimary)
}

func TestFilterAndPaginateBusinessNameContains(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	paws := seedSeller(t, db, "a@example.com", "Happy Paws")
	birds := seedSeller(t, db, "b@example.com", "Bird Palace")

	seedAdvert(t, repo, paws, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())
	seedAdvert(t, repo, birds, "Parrot", "Ankara", 250, model.AnimalKindBird, 3, twoImages())

	businessName := "Palace"
	adverts, totalCount, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{
		BusinessName: &businessName,
	}, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), totalCount)
	require.Len(t, adverts, 1)
	assert.Equal(t, "Parrot", adverts[0].Title)
}

func TestFilterAndPaginatePages(t *testing.T) {
	db := testDB(t)
	repo := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")

	for i := 0; i < 5; i++ {
		seedAdvert(t, repo, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())
	}

	first, totalCount, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), totalCount)
	require.Len(t, first, 2)

	second, _, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Greater(t, second[0].ID, first[1].ID)

	third, _, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{}, 3, 2)
	require.NoError(t, err)
	assert.Len(t, third, 1)

	empty, _, err := repo.FilterAndPaginate(context.Background(), AdvertFilter{}, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserFavoriteLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	adverts := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")
	advert := seedAdvert(t, adverts, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())

	exists, err := users.FavoriteExists(context.Background(), seller.UserID, advert.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, users.AddFavorite(context.Background(), &model.Favorite{
		UserID:   seller.UserID,
		AdvertID: advert.ID,
	}))

	exists, err = users.FavoriteExists(context.Background(), seller.UserID, advert.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	favorites, err := users.ListFavorites(context.Background(), seller.UserID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)

	require.NoError(t, users.RemoveFavorite(context.Background(), seller.UserID, advert.ID))
	assert.ErrorIs(t,
		users.RemoveFavorite(context.Background(), seller.UserID, advert.ID),
		gorm.ErrRecordNotFound)
}

func TestSellerListAdvertIDs(t *testing.T) {
	db := testDB(t)
	sellers := NewSellerRepository(db)
	adverts := NewAdvertRepository(db)
	seller := seedSeller(t, db, "a@example.com", "Happy Paws")

	first := seedAdvert(t, adverts, seller, "Kitten", "Istanbul", 150, model.AnimalKindCat, 1, twoImages())
	second := seedAdvert(t, adverts, seller, "Puppy", "Ankara", 300, model.AnimalKindDog, 2, twoImages())

	ids, err := sellers.ListAdvertIDs(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, ids)
}
