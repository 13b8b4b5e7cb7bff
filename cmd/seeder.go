package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/marketplace/internal/auth"
	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
	courierDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/courier"
	optionDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/option"
	storeDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/store"
	userDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/user"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		adminID := seedUser(db, "padil@mail.com", "Padil Admin", string(hash), auth.RoleAdmin, nil)

		support := &auth.Permissions{CanViewUsers: true, CanViewStores: true, CanViewCouriers: true}
		seedUser(db, "support@mail.com", "Support Desk", string(hash), auth.RoleSubUser, support)

		ownerID := seedUser(db, "fadhil@mail.com", "Fadhil Store", string(hash), auth.RoleStore, nil)
		storeID := seedStore(db, ownerID, "Warung Fadhil")

		seedUser(db, "customer@mail.com", "Customer", string(hash), auth.RoleCustomer, nil)

		courierUserID := seedUser(db, "courier@mail.com", "Night Courier", string(hash), auth.RoleCourier, nil)
		seedCourier(db, courierUserID, "Night Courier", "22:00", "06:00")

		seedCategories(db, storeID)
		seedOptions(db, storeID)

		fmt.Println("Seeding finished; admin:", adminID)
	},
}

func seedUser(db *gorm.DB, email, name, hash string, role auth.Role, perms *auth.Permissions) string {
	var existing userDatamodel.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Println("user already exists:", email)
		return existing.ID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up user %s: %v", email, err)
	}

	u := userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         int(role),
		Permissions:  userDatamodel.PermissionSet(perms.ToMap()),
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Printf("Seeded %s user: %s\n", role, email)
	return u.ID
}

func seedStore(db *gorm.DB, ownerID, name string) string {
	var existing storeDatamodel.Store
	err := db.Where("owner_id = ?", ownerID).First(&existing).Error
	if err == nil {
		return existing.ID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up store: %v", err)
	}

	s := storeDatamodel.Store{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: "Home cooked meals",
		Address:     "Jl. Sudirman 1",
		ServiceArea: "Jakarta Pusat",
		Status:      "approved",
		IsOpen:      true,
	}
	if err := db.Create(&s).Error; err != nil {
		log.Fatalf("failed to insert store: %v", err)
	}
	fmt.Println("Seeded approved store:", name)
	return s.ID
}

func seedCourier(db *gorm.DB, userID, name, start, end string) {
	var count int64
	if err := db.Model(&courierDatamodel.Courier{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		log.Fatalf("failed to look up courier: %v", err)
	}
	if count > 0 {
		return
	}

	c := courierDatamodel.Courier{
		ID:                uuid.NewString(),
		UserID:            &userID,
		Name:              name,
		IsActive:          true,
		WorkingHoursStart: &start,
		WorkingHoursEnd:   &end,
	}
	if err := db.Create(&c).Error; err != nil {
		log.Fatalf("failed to insert courier: %v", err)
	}
	fmt.Printf("Seeded courier %s working %s-%s\n", name, start, end)
}

func seedCategories(db *gorm.DB, partnerID string) {
	var count int64
	if err := db.Model(&categoryDatamodel.Category{}).Where("partner_id = ?", partnerID).Count(&count).Error; err != nil {
		log.Fatalf("failed to count categories: %v", err)
	}
	if count > 0 {
		return
	}

	foodID := uuid.NewString()
	rows := []categoryDatamodel.Category{
		{ID: foodID, PartnerID: partnerID, Name: "Makanan", SortOrder: 0, IsActive: true},
		{ID: uuid.NewString(), PartnerID: partnerID, ParentID: &foodID, Name: "Nasi", SortOrder: 0, IsActive: true},
		{ID: uuid.NewString(), PartnerID: partnerID, ParentID: &foodID, Name: "Mie", SortOrder: 1, IsActive: true},
		{ID: uuid.NewString(), PartnerID: partnerID, Name: "Minuman", SortOrder: 1, IsActive: true},
	}
	if err := db.Create(&rows).Error; err != nil {
		log.Fatalf("failed to insert categories: %v", err)
	}
	fmt.Println("Seeded categories:", len(rows))
}

func seedOptions(db *gorm.DB, partnerID string) {
	var count int64
	if err := db.Model(&optionDatamodel.Option{}).Where("partner_id = ?", partnerID).Count(&count).Error; err != nil {
		log.Fatalf("failed to count options: %v", err)
	}
	if count > 0 {
		return
	}

	sizeID := uuid.NewString()
	rows := []optionDatamodel.Option{
		{ID: sizeID, PartnerID: partnerID, Type: "size", Name: "Ukuran"},
		{ID: uuid.NewString(), PartnerID: partnerID, ParentID: &sizeID, Type: "size", Name: "Besar", Value: "L"},
		{ID: uuid.NewString(), PartnerID: partnerID, ParentID: &sizeID, Type: "size", Name: "Kecil", Value: "S"},
		{ID: uuid.NewString(), PartnerID: partnerID, Type: "spice", Name: "Pedas", Value: "hot"},
	}
	if err := db.Create(&rows).Error; err != nil {
		log.Fatalf("failed to insert options: %v", err)
	}
	fmt.Println("Seeded options:", len(rows))
}

func clearSeedData(db *gorm.DB) {
	tables := []string{
		"favorite_stores",
		"notifications",
		"branch_requests",
		"product_categories",
		"categories",
		"couriers",
		"stores",
		"users",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", t, err)
		}
	}
	fmt.Println("Cleared existing data")
}
