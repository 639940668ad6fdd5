package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/repository"
	"gorm.io/gorm"
)

// fakeAdvertStore is an in-memory AdvertStore.
type fakeAdvertStore struct {
	adverts    map[uint]*model.Advert
	nextID     uint
	nextImgID  uint
	deletedIDs []uint
}

func newFakeAdvertStore() *fakeAdvertStore {
	return &fakeAdvertStore{adverts: make(map[uint]*model.Advert)}
}

func (f *fakeAdvertStore) GetByIDWithDetails(ctx context.Context, id uint) (*model.Advert, error) {
	advert, ok := f.adverts[id]
	if !ok {
		return nil, nil
	}
	return advert, nil
}

func (f *fakeAdvertStore) Create(ctx context.Context, advert *model.Advert, images []model.AdvertImage) (*model.Advert, error) {
	f.nextID++
	advert.ID = f.nextID
	for i := range images {
		f.nextImgID++
		images[i].ID = f.nextImgID
		images[i].AdvertID = advert.ID
	}
	advert.Images = images
	f.adverts[advert.ID] = advert
	return advert, nil
}

func (f *fakeAdvertStore) Update(ctx context.Context, advert *model.Advert) error {
	if _, ok := f.adverts[advert.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.adverts[advert.ID] = advert
	return nil
}

func (f *fakeAdvertStore) Delete(ctx context.Context, id uint) error {
	if _, ok := f.adverts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.adverts, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeAdvertStore) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := f.adverts[id]
	return ok, nil
}

func (f *fakeAdvertStore) AddImages(ctx context.Context, images []model.AdvertImage) error {
	for i := range images {
		f.nextImgID++
		images[i].ID = f.nextImgID
		advert := f.adverts[images[i].AdvertID]
		advert.Images = append(advert.Images, images[i])
	}
	return nil
}

func (f *fakeAdvertStore) GetImageByID(ctx context.Context, imageID uint) (*model.AdvertImage, error) {
	for _, advert := range f.adverts {
		for i := range advert.Images {
			if advert.Images[i].ID == imageID {
				return &advert.Images[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeAdvertStore) DeleteImage(ctx context.Context, imageID uint) (*model.AdvertImage, error) {
	for _, advert := range f.adverts {
		for i := range advert.Images {
			image := advert.Images[i]
			if image.ID != imageID {
				continue
			}
			if image.IsPrimary {
				return nil, nil
			}
			advert.Images = append(advert.Images[:i], advert.Images[i+1:]...)
			return &image, nil
		}
	}
	return nil, nil
}

func (f *fakeAdvertStore) SetPrimary(ctx context.Context, advertID, imageID uint) error {
	advert, ok := f.adverts[advertID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	found := false
	for i := range advert.Images {
		if advert.Images[i].ID == imageID {
			found = true
		}
	}
	if !found {
		return gorm.ErrRecordNotFound
	}
	for i := range advert.Images {
		advert.Images[i].IsPrimary = advert.Images[i].ID == imageID
	}
	return nil
}

func (f *fakeAdvertStore) CountImages(ctx context.Context, advertID uint) (int64, error) {
	advert, ok := f.adverts[advertID]
	if !ok {
		return 0, nil
	}
	return int64(len(advert.Images)), nil
}

func (f *fakeAdvertStore) MaxImageOrder(ctx context.Context, advertID uint) (int, error) {
	advert, ok := f.adverts[advertID]
	if !ok {
		return 0, nil
	}
	max := 0
	for _, img := range advert.Images {
		if img.Order > max {
			max = img.Order
		}
	}
	return max, nil
}

func (f *fakeAdvertStore) HasPrimaryImage(ctx context.Context, advertID uint) (bool, error) {
	advert, ok := f.adverts[advertID]
	if !ok {
		return false, nil
	}
	return advert.PrimaryImage() != nil, nil
}

func (f *fakeAdvertStore) FilterAndPaginate(ctx context.Context, filter repository.AdvertFilter, page, pageSize int) ([]model.Advert, int64, error) {
	ids := make([]uint, 0, len(f.adverts))
	for id := range f.adverts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var all []model.Advert
	for _, id := range ids {
		all = append(all, *f.adverts[id])
	}

	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

// fakeSellerStore is an in-memory SellerStore keyed by user id.
type fakeSellerStore struct {
	sellers map[uint]*model.Seller
	nextID  uint
}

func newFakeSellerStore() *fakeSellerStore {
	return &fakeSellerStore{sellers: make(map[uint]*model.Seller)}
}

func (f *fakeSellerStore) Create(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
	f.nextID++
	seller.ID = f.nextID
	f.sellers[seller.UserID] = seller
	return seller, nil
}

func (f *fakeSellerStore) GetByUserID(ctx context.Context, userID uint) (*model.Seller, error) {
	seller, ok := f.sellers[userID]
	if !ok {
		return nil, nil
	}
	return seller, nil
}

func (f *fakeSellerStore) ExistsByUserID(ctx context.Context, userID uint) (bool, error) {
	_, ok := f.sellers[userID]
	return ok, nil
}

func (f *fakeSellerStore) Update(ctx context.Context, seller *model.Seller) error {
	f.sellers[seller.UserID] = seller
	return nil
}

func (f *fakeSellerStore) Delete(ctx context.Context, id uint) error {
	for userID, seller := range f.sellers {
		if seller.ID == id {
			delete(f.sellers, userID)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSellerStore) ListAdvertIDs(ctx context.Context, sellerID uint) ([]uint, error) {
	for _, seller := range f.sellers {
		if seller.ID == sellerID {
			ids := make([]uint, 0, len(seller.Adverts))
			for _, advert := range seller.Adverts {
				ids = append(ids, advert.ID)
			}
			return ids, nil
		}
	}
	return nil, nil
}

// fakeUserStore is an in-memory UserStore with favorites.
type fakeUserStore struct {
	users     map[uint]*model.User
	favorites map[[2]uint]bool
	nextID    uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:     make(map[uint]*model.User),
		favorites: make(map[[2]uint]bool),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) (*model.User, error) {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, _ := f.GetByEmail(ctx, email)
	return user != nil, nil
}

func (f *fakeUserStore) ExistsByID(ctx context.Context, id uint) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) AddFavorite(ctx context.Context, favorite *model.Favorite) error {
	f.favorites[[2]uint{favorite.UserID, favorite.AdvertID}] = true
	return nil
}

func (f *fakeUserStore) RemoveFavorite(ctx context.Context, userID, advertID uint) error {
	key := [2]uint{userID, advertID}
	if !f.favorites[key] {
		return gorm.ErrRecordNotFound
	}
	delete(f.favorites, key)
	return nil
}

func (f *fakeUserStore) FavoriteExists(ctx context.Context, userID, advertID uint) (bool, error) {
	return f.favorites[[2]uint{userID, advertID}], nil
}

func (f *fakeUserStore) ListFavorites(ctx context.Context, userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	for key := range f.favorites {
		if key[0] == userID {
			favorites = append(favorites, model.Favorite{UserID: key[0], AdvertID: key[1]})
		}
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].AdvertID < favorites[j].AdvertID
	})
	return favorites, nil
}

// fakeUploader succeeds for every file not listed in failing and records the
// arguments it was called with.
type fakeUploader struct {
	failing     map[string]bool
	batchCalls  int
	startOrders []int
	needPrimary []bool
	removed     []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{failing: make(map[string]bool)}
}

func (f *fakeUploader) UploadBatch(ctx context.Context, files []imaging.File, startOrder int, needPrimary bool) ([]model.AdvertImage, []string) {
	f.batchCalls++
	f.startOrders = append(f.startOrders, startOrder)
	f.needPrimary = append(f.needPrimary, needPrimary)

	var uploaded []model.AdvertImage
	var uploadErrors []string
	for _, file := range files {
		if f.failing[file.Name] {
			uploadErrors = append(uploadErrors, fmt.Sprintf("'%s' failed to upload", file.Name))
			continue
		}
		uploaded = append(uploaded, model.AdvertImage{
			URL:       "https://img.example.com/" + file.Name,
			StorageID: "store/" + file.Name,
			Order:     startOrder + len(uploaded) + 1,
			IsPrimary: needPrimary && len(uploaded) == 0,
		})
	}
	return uploaded, uploadErrors
}

func (f *fakeUploader) Remove(ctx context.Context, storageID string) {
	f.removed = append(f.removed, storageID)
}
